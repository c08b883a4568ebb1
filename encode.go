package skein

import (
	"reflect"
	"sort"
)

// Wire member names of a node.
const (
	memberType       = "Type"
	memberKey        = "Key"
	memberProperties = "Properties"
)

// encoder holds the session of one encode call.
type encoder struct {
	p     *Processor
	seen  map[reflect.Type]map[Record]int64
	stats sessionStats
}

func (p *Processor) newEncoder() *encoder {
	return &encoder{p: p, seen: make(map[reflect.Type]map[Record]int64)}
}

// root encodes one of the accepted top-level shapes.
func (e *encoder) root(root any) (Value, error) {
	if root == nil {
		return nil, nil
	}
	if r, ok := root.(Record); ok {
		if isNil(r) {
			return nil, nil
		}
		return e.record(r)
	}

	rv := reflect.ValueOf(root)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return e.list(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, newSchemaError(rv.Type().String(), "", "map roots must have string keys")
		}
		if rv.IsNil() {
			return nil, nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		obj := NewObject(len(keys))
		for _, k := range keys {
			v, err := e.entry(rv.MapIndex(k))
			if err != nil {
				return nil, err
			}
			obj.Set(k.String(), v)
		}
		return obj, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
	}
	return nil, newSchemaError(rv.Type().String(), "", "unsupported root type")
}

// entry encodes one value of a map root: a record or a list of records.
func (e *encoder) entry(v reflect.Value) (Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return e.list(v)
	case reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
		if r, ok := v.Interface().(Record); ok {
			return e.record(r)
		}
	}
	return nil, newSchemaError(v.Type().String(), "", "unsupported map value type")
}

func (e *encoder) list(v reflect.Value) (Value, error) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return nil, nil
	}
	out := make(Array, v.Len())
	for i := range out {
		r, ok, err := recordAt(v.Index(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if out[i], err = e.record(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// recordAt extracts a record from a reference-typed value. ok is false for
// nil references.
func recordAt(v reflect.Value) (Record, bool, error) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, false, nil
		}
	default:
		return nil, false, newSchemaError(v.Type().String(), "", "not a record")
	}
	r, ok := v.Interface().(Record)
	if !ok {
		return nil, false, newSchemaError(v.Type().String(), "", "not a record")
	}
	return r, true, nil
}

// record emits a Full node for an unseen instance and a Backref node for
// one already visited in this session.
func (e *encoder) record(r Record) (Value, error) {
	rv := reflect.ValueOf(r)
	t := rv.Type().Elem()

	if key, ok := e.seen[t][r]; ok {
		e.stats.backrefs++
		obj := NewObject(1)
		obj.Set(memberKey, IntNumber(key))
		return obj, nil
	}

	levels, err := e.p.schema.chain(t)
	if err != nil {
		return nil, err
	}

	// Register before descending so cycles come back as Backrefs.
	key := e.p.nextKey()
	if e.seen[t] == nil {
		e.seen[t] = make(map[Record]int64)
	}
	e.seen[t][r] = key
	e.stats.full++

	return e.level(rv.Elem(), levels, 0, key)
}

// level emits the Full node of one inheritance level. Sub levels carry the
// continuation of their parent level as the last member of Properties.
func (e *encoder) level(sv reflect.Value, levels []level, i int, key int64) (Value, error) {
	lv := levels[i]

	props := NewObject(len(lv.fields) + 1)
	for _, f := range lv.fields {
		fv := sv.FieldByIndex(concatPath(lv.path, f.path))
		v, ok, err := e.field(f.Field, fv)
		if err != nil {
			return nil, err
		}
		if ok {
			props.Set(f.Name, v)
		}
	}

	if i+1 < len(levels) {
		cont, err := e.level(sv, levels, i+1, e.p.nextKey())
		if err != nil {
			return nil, err
		}
		props.Set(levels[i+1].desc.Name, cont)
	}

	obj := NewObject(3)
	obj.Set(memberType, lv.desc.Name)
	obj.Set(memberKey, IntNumber(key))
	obj.Set(memberProperties, props)
	return obj, nil
}

// field renders one field value. ok is false for null values, which are
// omitted from the node.
func (e *encoder) field(f *Field, fv reflect.Value) (Value, bool, error) {
	switch f.Kind {
	case KindScalar:
		return e.p.formatScalar(f, fv)
	case KindReference:
		r, ok, err := recordAt(fv)
		if err != nil || !ok {
			return nil, false, err
		}
		v, err := e.record(r)
		return v, err == nil, err
	case KindReferenceList:
		if fv.IsNil() {
			return nil, false, nil
		}
		v, err := e.list(fv)
		return v, err == nil, err
	}
	return nil, false, newSchemaError(f.Owner.String(), f.Name, "unknown field kind")
}
