package skein

import (
	"context"
	"reflect"
	"slices"
	"sort"
	"sync"
)

// Field describes one registered field of an entity type.
type Field struct {
	Name   string       // Wire name, unique within the owner's own fields
	GoName string       // Go struct field name
	Owner  reflect.Type // Struct type that declares the field
	GoType reflect.Type // Go type of the struct field
	Type   FieldType    // Declared semantic type
	Kind   Kind         // Derived from Type
	Hidden bool         // Excluded from default enumeration, still on the wire

	index []int // reflect.Value.FieldByIndex path within Owner
}

func (f *Field) String() string {
	return f.Owner.Name() + "." + f.Name
}

// Descriptor is the registered schema of one entity type.
type Descriptor struct {
	Name   string
	Type   reflect.Type
	Class  Classification
	Parent *Descriptor // Nearest persisted ancestor; Base for strong types, nil for Base

	marker     bool
	up         *Descriptor // Directly embedded entity struct, marker or not
	upIndex    int         // Field index of that embedding
	parentPath []int       // Path from this struct to Parent's struct
	own        []*Field
	level      []levelField // Wire fields of this level: Base fields first for strong types
}

// levelField binds a field to the struct of the level it is emitted at.
type levelField struct {
	*Field
	path []int
}

// Marker reports whether the type is a non-persisted marker level.
func (d *Descriptor) Marker() bool { return d.marker }

// New allocates a zero instance of the type.
func (d *Descriptor) New() Record {
	return reflect.New(d.Type).Interface().(Record)
}

func (d *Descriptor) lookup(name string, fields []levelField) (levelField, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return levelField{}, false
}

// TypeResolver maps wire discriminators to registered types.
type TypeResolver interface {
	Resolve(name string) (*Descriptor, error)
}

// TypeOption configures an entity type at registration.
type TypeOption func(*typeConfig)

type typeConfig struct {
	name   string
	marker bool
}

// Named overrides the discriminator written to the wire. Defaults to the
// Go struct name.
func Named(name string) TypeOption {
	return func(c *typeConfig) { c.name = name }
}

// AsMarker registers a non-persisted level. Marker levels are skipped when
// resolving parents and cannot declare fields. Register markers before
// any type that embeds them.
func AsMarker() TypeOption {
	return func(c *typeConfig) { c.marker = true }
}

// Schema is a catalogue of entity types and their fields.
//
// Schemas are safe for concurrent use. Registration should complete before
// the types are used by a Processor or by Equal.
type Schema struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*Descriptor
	byName map[string]*Descriptor
	base   *Descriptor
}

// NewSchema returns a schema holding only the Base type.
func NewSchema() *Schema {
	s := &Schema{}
	s.init()
	return s
}

func (s *Schema) init() {
	base := &Descriptor{Name: entityType.Name(), Type: entityType, Class: ClassBase}
	sf, _ := entityType.FieldByName("ID")
	id := &Field{
		Name:   sf.Name,
		GoName: sf.Name,
		Owner:  entityType,
		GoType: sf.Type,
		Type:   TypeInteger,
		Kind:   KindScalar,
		index:  sf.Index,
	}
	base.own = []*Field{id}
	base.level = []levelField{{Field: id, path: id.index}}

	s.base = base
	s.byType = map[reflect.Type]*Descriptor{entityType: base}
	s.byName = make(map[string]*Descriptor)
}

// Reset drops every registered type except Base.
// This is primarily useful for test isolation.
func (s *Schema) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
}

// RegisterEntityType ensures t has a descriptor, registering its ancestors
// first. Registering an existing type is a no-op unless the options
// conflict with the existing registration.
func (s *Schema) RegisterEntityType(t reflect.Type, opts ...TypeOption) (*Descriptor, error) {
	if t == nil {
		return nil, newSchemaError("<nil>", "", "not an entity type")
	}
	cfg := typeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Fast path: read-lock cache check
	s.mu.RLock()
	if d, ok := s.byType[t]; ok && len(opts) == 0 {
		s.mu.RUnlock()
		return d, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(t, cfg)
}

func (s *Schema) ensureLocked(t reflect.Type, cfg typeConfig) (*Descriptor, error) {
	if d, ok := s.byType[t]; ok {
		if cfg.marker && !d.marker {
			return nil, newSchemaError(t.String(), "", "already registered as a persisted type")
		}
		if cfg.name != "" && cfg.name != d.Name {
			return nil, newSchemaError(t.String(), "", "already registered as "+d.Name)
		}
		return d, nil
	}
	if !isEntityStruct(t) {
		return nil, newSchemaError(t.String(), "", "not an entity type: struct must embed skein.Entity")
	}

	idx, upType, _ := embeddedParent(t)
	up, err := s.ensureLocked(upType, typeConfig{})
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Name:    t.Name(),
		Type:    t,
		marker:  cfg.marker,
		up:      up,
		upIndex: idx,
	}
	if cfg.name != "" {
		d.Name = cfg.name
	}

	// Skip marker ancestors to find the persisted parent.
	path := []int{idx}
	parent := up
	for parent.marker {
		path = append(path, parent.upIndex)
		parent = parent.up
	}
	d.Parent = parent
	d.parentPath = path

	if parent.Class == ClassBase {
		d.Class = ClassStrong
		for _, f := range parent.level {
			d.level = append(d.level, levelField{Field: f.Field, path: concatPath(path, f.index)})
		}
	} else {
		d.Class = ClassSub
	}

	if !d.marker {
		if existing, ok := s.byName[d.Name]; ok && existing.Type != t {
			return nil, newSchemaError(t.String(), "", "type name "+d.Name+" already registered to "+existing.Type.String())
		}
		s.byName[d.Name] = d
	}
	s.byType[t] = d

	emitTypeRegistered(context.Background(), d.Name, d.Class.String())
	return d, nil
}

// RegisterField registers the Go struct field name of owner as an entity
// field. The declared type is taken from the struct field. Registering the
// same name again returns the existing field.
func (s *Schema) RegisterField(owner reflect.Type, name string, hidden bool) (*Field, error) {
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, newSchemaError(typeString(owner), name, "not an entity type")
	}
	sf, ok := owner.FieldByName(name)
	if !ok || len(sf.Index) != 1 || sf.Anonymous || !sf.IsExported() {
		return nil, newSchemaError(owner.String(), name, "no exported field "+name+" declared on type")
	}
	return s.registerField(owner, fieldSource{goName: sf.Name, index: sf.Index, goType: sf.Type}, name, hidden)
}

// fieldSource locates a struct field within its owner.
type fieldSource struct {
	goName string
	index  []int
	goType reflect.Type
}

func (s *Schema) registerField(owner reflect.Type, src fieldSource, name string, hidden bool) (*Field, error) {
	if owner == nil {
		return nil, newSchemaError("<nil>", name, "not an entity type")
	}
	if owner == entityType {
		return nil, newSchemaError(owner.String(), name, "base fields are fixed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.ensureLocked(owner, typeConfig{})
	if err != nil {
		return nil, err
	}
	for _, f := range d.own {
		if f.Name == name {
			return f, nil
		}
	}
	if d.marker {
		return nil, newSchemaError(owner.String(), name, "marker types cannot declare fields")
	}
	if d.Class == ClassSub && name == d.Parent.Name {
		return nil, newSchemaError(owner.String(), name, "field name collides with parent type name")
	}

	ft, ok := classifyField(src.goType)
	if !ok {
		return nil, newSchemaError(owner.String(), name, "unsupported field type "+src.goType.String())
	}

	f := &Field{
		Name:   name,
		GoName: src.goName,
		Owner:  owner,
		GoType: src.goType,
		Type:   ft,
		Kind:   ft.Kind(),
		Hidden: hidden,
		index:  src.index,
	}
	d.own = append(d.own, f)
	d.level = append(d.level, levelField{Field: f, path: f.index})
	return f, nil
}

// MustRegisterField is like RegisterField but panics on error.
func (s *Schema) MustRegisterField(owner reflect.Type, name string, hidden bool) *Field {
	f, err := s.RegisterField(owner, name, hidden)
	if err != nil {
		panic(err)
	}
	return f
}

// Descriptor returns the descriptor registered for t.
func (s *Schema) Descriptor(t reflect.Type) (*Descriptor, error) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byType[t]
	if !ok {
		return nil, newSchemaError(typeString(t), "", "type not registered")
	}
	return d, nil
}

// Resolve maps a discriminator to its registered type.
func (s *Schema) Resolve(name string) (*Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byName[name]
	if !ok {
		return nil, &TypeResolutionError{Name: name, Reason: "unknown discriminator"}
	}
	return d, nil
}

// Fields returns the fields of t. Strong types carry the Base fields first.
// Sub types include their ancestors' fields, nearest level first, when
// includeInherited is set. Hidden fields are dropped unless includeHidden.
func (s *Schema) Fields(t reflect.Type, includeInherited, includeHidden bool) ([]*Field, error) {
	d, err := s.Descriptor(t)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fields []*Field
	for cur := d; cur != nil; cur = cur.Parent {
		for _, f := range cur.level {
			if f.Hidden && !includeHidden {
				continue
			}
			fields = append(fields, f.Field)
		}
		if !includeInherited || cur.Class != ClassSub {
			break
		}
	}
	return fields, nil
}

// Types returns the persisted descriptors ordered by name.
func (s *Schema) Types() []*Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Descriptor, 0, len(s.byName))
	for _, d := range s.byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// level is one inheritance step of a concrete type, bound to the path of
// its struct inside the concrete struct.
type level struct {
	desc   *Descriptor
	fields []levelField
	path   []int
}

// chain returns the persisted levels of t from the concrete type up to its
// strong ancestor.
func (s *Schema) chain(t reflect.Type) ([]level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byType[t]
	if !ok {
		return nil, newSchemaError(typeString(t), "", "type not registered")
	}
	if d.marker || d.Class == ClassBase {
		return nil, newSchemaError(d.Type.String(), "", "type is not instantiable")
	}

	var levels []level
	var path []int
	for cur := d; ; cur = cur.Parent {
		levels = append(levels, level{desc: cur, fields: cur.level, path: path})
		if cur.Class == ClassStrong {
			return levels, nil
		}
		path = concatPath(path, cur.parentPath)
	}
}

func concatPath(a, b []int) []int {
	return append(slices.Clip(slices.Clone(a)), b...)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
