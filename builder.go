package skein

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the field tag with sentinel
	sentinel.Tag(tagName)
}

const tagName = "skein"

// Register adds entity type T and its own exported fields to s. Fields
// are registered in declaration order. The skein tag renames a field,
// marks it hidden, or excludes it:
//
//	type User struct {
//	    skein.Entity
//	    Name     string
//	    Password string  `skein:",hidden"`
//	    Nick     *string `skein:"Nickname"`
//	    Cache    []byte  `skein:"-"`
//	}
//
// Ancestors are registered automatically but without their fields; call
// Register for each level.
func Register[T any](s *Schema, opts ...TypeOption) error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return newSchemaError(rt.String(), "", "register a struct type, not "+rt.Kind().String())
	}
	d, err := s.RegisterEntityType(rt, opts...)
	if err != nil {
		return err
	}
	if d.marker {
		return nil
	}

	// sentinel caches metadata by bare type name.
	meta := sentinel.Scan[T]()
	if !describes(meta, rt) {
		return newSchemaError(rt.String(), "", "metadata cached for another type named "+meta.TypeName)
	}
	for _, fm := range meta.Fields {
		if embedsLevel(fm) {
			continue
		}
		name, hidden, skip := parseTag(fm.Name, fm.Tags[tagName])
		if skip {
			continue
		}
		src := fieldSource{goName: fm.Name, index: fm.Index, goType: fm.ReflectType}
		if _, err := s.registerField(rt, src, name, hidden); err != nil {
			return err
		}
	}
	return nil
}

// describes reports whether meta was scanned from rt.
func describes(meta sentinel.Metadata, rt reflect.Type) bool {
	if meta.TypeName != rt.Name() || meta.PackageName != rt.PkgPath() {
		return false
	}
	for _, fm := range meta.Fields {
		if len(fm.Index) != 1 || fm.Index[0] >= rt.NumField() {
			return false
		}
		sf := rt.Field(fm.Index[0])
		if sf.Name != fm.Name || sf.Type != fm.ReflectType {
			return false
		}
	}
	return true
}

// embedsLevel reports whether fm is an embedded entity level. Levels are
// registered by their own Register call.
func embedsLevel(fm sentinel.FieldMetadata) bool {
	t := fm.ReflectType
	if t == nil || fm.Name != t.Name() {
		return false
	}
	return t == entityType || isEntityStruct(t)
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](s *Schema, opts ...TypeOption) {
	if err := Register[T](s, opts...); err != nil {
		panic(err)
	}
}

// parseTag splits a skein tag into wire name and options.
func parseTag(goName, tag string) (name string, hidden, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = goName
	}
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "hidden" {
			hidden = true
		}
	}
	return name, hidden, false
}
