package skein

import (
	"fmt"
	"reflect"
)

// Entity is the base of every record. Embed it in a strong entity struct,
// and embed that struct in its sub entities:
//
//	type User struct {
//	    skein.Entity
//	    Name string
//	}
//
//	type Student struct {
//	    User
//	    RegistrationNumber *string
//	}
type Entity struct {
	ID *int
}

func (e *Entity) entity() *Entity { return e }

// IsPersistent reports whether the entity has an identity greater than zero.
func (e *Entity) IsPersistent() bool {
	return e != nil && e.ID != nil && *e.ID > 0
}

func (e *Entity) String() string {
	if e == nil || e.ID == nil {
		return "[]"
	}
	return fmt.Sprintf("[%d]", *e.ID)
}

// Record is implemented by pointers to structs embedding Entity.
type Record interface {
	entity() *Entity
}

// Base returns the embedded Entity of a record.
func Base(r Record) *Entity {
	if isNil(r) {
		return nil
	}
	return r.entity()
}

// Same reports whether two records denote the same logical row: both nil,
// the same instance, or the same concrete type with equal persistent IDs.
func Same(a, b Record) bool {
	aNil, bNil := isNil(a), isNil(b)
	if aNil && bNil {
		return true
	}
	if aNil || bNil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a == b {
		return true
	}
	ea, eb := a.entity(), b.entity()
	if !ea.IsPersistent() || !eb.IsPersistent() {
		return false
	}
	return *ea.ID == *eb.ID
}

func isNil(r Record) bool {
	if r == nil {
		return true
	}
	rv := reflect.ValueOf(r)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

var entityType = reflect.TypeFor[Entity]()

// embeddedParent finds the embedded struct through which t inherits from
// Entity. It returns the field index of that embedding.
func embeddedParent(t reflect.Type) (int, reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return 0, nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
			continue
		}
		if sf.Type == entityType || isEntityStruct(sf.Type) {
			return i, sf.Type, true
		}
	}
	return 0, nil, false
}

// isEntityStruct reports whether t embeds Entity, directly or transitively.
func isEntityStruct(t reflect.Type) bool {
	if t == entityType {
		return false
	}
	_, _, ok := embeddedParent(t)
	return ok
}
