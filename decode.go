package skein

import (
	"fmt"
	"reflect"
	"strconv"
)

// decoder holds the session of one decode call.
type decoder struct {
	p     *Processor
	nodes map[int64]Record
	stats sessionStats

	// Graph bookkeeping, only filled when track is set.
	track bool
	order []Record
	index map[Record]int
	links []Link
}

func (p *Processor) newDecoder(track bool) *decoder {
	d := &decoder{p: p, nodes: make(map[int64]Record), track: track}
	if track {
		d.index = make(map[Record]int)
	}
	return d
}

// into decodes a top-level document into out. out is only written on
// success.
func (d *decoder) into(v Value, out any) error {
	ov := reflect.ValueOf(out)
	if ov.Kind() != reflect.Pointer || ov.IsNil() {
		return newSchemaError(fmt.Sprintf("%T", out), "", "decode target must be a non-nil pointer")
	}
	target := ov.Elem()

	result := reflect.New(target.Type()).Elem()
	if err := d.top(v, result, "$"); err != nil {
		return err
	}
	target.Set(result)
	return nil
}

// top decodes one accepted top-level shape into dst.
func (d *decoder) top(v Value, dst reflect.Value, path string) error {
	rt := dst.Type()
	switch {
	case isReferenceType(rt):
		return d.reference(v, dst, path)

	case rt.Kind() == reflect.Slice && isReferenceType(rt.Elem()):
		return d.list(v, dst, path)

	case rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String:
		if v == nil {
			return nil
		}
		obj, ok := v.(*Object)
		if !ok {
			return newFormatError(path, "expected object, got %s", tokenName(v))
		}
		m := reflect.MakeMapWithSize(rt, obj.Len())
		for _, member := range obj.Members() {
			elem := reflect.New(rt.Elem()).Elem()
			if err := d.top(member.Value, elem, path+"."+member.Name); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(member.Name).Convert(rt.Key()), elem)
		}
		dst.Set(m)
		return nil
	}
	return newSchemaError(rt.String(), "", "unsupported decode target")
}

// reference decodes a node into a reference-typed value.
func (d *decoder) reference(v Value, dst reflect.Value, path string) error {
	if v == nil {
		dst.SetZero()
		return nil
	}
	r, err := d.node(v, path)
	if err != nil {
		return err
	}
	return assign(dst, r)
}

// list decodes an array of nodes into a freshly sized slice.
func (d *decoder) list(v Value, dst reflect.Value, path string) error {
	if v == nil {
		dst.SetZero()
		return nil
	}
	arr, ok := v.(Array)
	if !ok {
		return newFormatError(path, "expected array, got %s", tokenName(v))
	}
	s := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
	for i, elem := range arr {
		if err := d.reference(elem, s.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	dst.Set(s)
	return nil
}

func assign(dst reflect.Value, r Record) error {
	rv := reflect.ValueOf(r)
	if !rv.Type().AssignableTo(dst.Type()) {
		name := rv.Type().Elem().Name()
		return &TypeResolutionError{Name: name, Expected: dst.Type().String(), Reason: "reference type mismatch"}
	}
	dst.Set(rv)
	return nil
}

// nodeKey reads the mandatory integer Key of a node.
func nodeKey(obj *Object, path string) (int64, error) {
	raw, ok := obj.Get(memberKey)
	if !ok {
		return 0, newFormatError(path, "missing Key")
	}
	n, ok := raw.(Number)
	if !ok || !n.IsInteger() {
		return 0, newFormatError(path, "Key must be an integer, got %s", tokenName(raw))
	}
	key, err := n.Int64()
	if err != nil {
		return 0, newFormatError(path, "Key out of range: %s", n)
	}
	return key, nil
}

// node resolves a Backref or materializes a Full node.
func (d *decoder) node(v Value, path string) (Record, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, newFormatError(path, "expected node object, got %s", tokenName(v))
	}
	key, err := nodeKey(obj, path)
	if err != nil {
		return nil, err
	}

	rawType, hasType := obj.Get(memberType)
	if !hasType {
		if obj.Has(memberProperties) {
			return nil, newFormatError(path, "node has Properties but no Type")
		}
		r, ok := d.nodes[key]
		if !ok {
			return nil, newFormatError(path, "unresolved back-reference key %d", key)
		}
		d.stats.backrefs++
		return r, nil
	}

	name, ok := rawType.(string)
	if !ok {
		return nil, newFormatError(path, "Type must be a string, got %s", tokenName(rawType))
	}
	desc, err := d.p.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	levels, err := d.p.schema.chain(desc.Type)
	if err != nil {
		return nil, err
	}
	if _, dup := d.nodes[key]; dup {
		return nil, newFormatError(path, "duplicate key %d", key)
	}

	// Register before populating: fields below may point back here.
	r := desc.New()
	d.nodes[key] = r
	d.stats.full++
	if d.track {
		d.index[r] = len(d.order)
		d.order = append(d.order, r)
	}

	if err := d.level(obj, r, reflect.ValueOf(r).Elem(), levels, 0, path); err != nil {
		return nil, err
	}
	return r, nil
}

// level populates the fields of one inheritance level and descends into
// the parent continuation for Sub levels.
func (d *decoder) level(obj *Object, r Record, sv reflect.Value, levels []level, i int, path string) error {
	lv := levels[i]
	strong := i+1 == len(levels)

	rawProps, ok := obj.Get(memberProperties)
	if !ok {
		return newFormatError(path, "missing Properties")
	}
	props, ok := rawProps.(*Object)
	if !ok {
		return newFormatError(path, "Properties must be an object, got %s", tokenName(rawProps))
	}

	var (
		cont     Value
		contName string
		contPath string
		found    bool
	)
	takeCont := func(name string, v Value, at string) error {
		if strong {
			return newFormatError(at, "unexpected property %q on %s", name, lv.desc.Name)
		}
		if found {
			return newFormatError(at, "duplicate parent continuation %q", name)
		}
		cont, contName, contPath, found = v, name, at, true
		return nil
	}

	propsPath := path + "." + memberProperties
	for _, m := range props.Members() {
		at := propsPath + "." + m.Name
		f, ok := lv.desc.lookup(m.Name, lv.fields)
		if !ok {
			if err := takeCont(m.Name, m.Value, at); err != nil {
				return err
			}
			continue
		}
		fv := sv.FieldByIndex(concatPath(lv.path, f.path))
		if err := d.field(r, f.Field, m.Value, fv, at); err != nil {
			return err
		}
	}

	// A continuation may also sit beside Properties.
	for _, m := range obj.Members() {
		switch m.Name {
		case memberType, memberKey, memberProperties:
			continue
		}
		if err := takeCont(m.Name, m.Value, path+"."+m.Name); err != nil {
			return err
		}
	}

	if strong {
		return nil
	}
	parent := levels[i+1]
	if !found {
		return newFormatError(path, "missing parent continuation %q", parent.desc.Name)
	}

	cobj, ok := cont.(*Object)
	if !ok {
		return newFormatError(contPath, "expected node object, got %s", tokenName(cont))
	}
	key, err := nodeKey(cobj, contPath)
	if err != nil {
		return err
	}
	rawType, ok := cobj.Get(memberType)
	if !ok {
		return newFormatError(contPath, "parent continuation cannot be a back-reference")
	}
	name, ok := rawType.(string)
	if !ok {
		return newFormatError(contPath, "Type must be a string, got %s", tokenName(rawType))
	}
	desc, err := d.p.resolver.Resolve(name)
	if err != nil {
		return err
	}
	if desc.Type != parent.desc.Type {
		return &TypeResolutionError{Name: name, Expected: parent.desc.Name, Reason: "parent type mismatch"}
	}
	if contName != parent.desc.Name {
		return newFormatError(contPath, "parent continuation named %q, want %q", contName, parent.desc.Name)
	}
	if _, dup := d.nodes[key]; dup {
		return newFormatError(contPath, "duplicate key %d", key)
	}
	d.nodes[key] = r

	return d.level(cobj, r, sv, levels, i+1, contPath)
}

// field decodes one property into fv.
func (d *decoder) field(owner Record, f *Field, raw Value, fv reflect.Value, path string) error {
	switch f.Kind {
	case KindScalar:
		return d.p.coerceScalar(f, raw, fv, path)

	case KindReference:
		if !isNodeToken(raw) {
			return &CoercionError{Path: path, Field: f.Name, Type: f.Type, Token: tokenName(raw)}
		}
		if err := d.reference(raw, fv, path); err != nil {
			return err
		}
		if raw != nil {
			d.link(owner, fv, f.Name, -1)
		}
		return nil

	case KindReferenceList:
		if raw != nil {
			arr, ok := raw.(Array)
			if !ok {
				return &CoercionError{Path: path, Field: f.Name, Type: f.Type, Token: tokenName(raw)}
			}
			for i, elem := range arr {
				if !isNodeToken(elem) {
					at := path + "[" + strconv.Itoa(i) + "]"
					return &CoercionError{Path: at, Field: f.Name, Type: f.Type, Token: tokenName(elem)}
				}
			}
		}
		if err := d.list(raw, fv, path); err != nil {
			return err
		}
		if d.track && raw != nil {
			for i := 0; i < fv.Len(); i++ {
				d.link(owner, fv.Index(i), f.Name, i)
			}
		}
		return nil
	}
	return newSchemaError(f.Owner.String(), f.Name, "unknown field kind")
}

// isNodeToken reports whether raw can stand for a reference: null or an
// object.
func isNodeToken(raw Value) bool {
	if raw == nil {
		return true
	}
	_, ok := raw.(*Object)
	return ok
}

func (d *decoder) link(owner Record, target reflect.Value, field string, pos int) {
	if !d.track || target.IsNil() {
		return
	}
	to, ok := d.index[target.Interface().(Record)]
	if !ok {
		return
	}
	d.links = append(d.links, Link{From: d.index[owner], To: to, Field: field, Position: pos})
}
