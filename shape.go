package skein

import "sort"

// Shape returns a deep copy of a document with every Key renumbered from 0
// in order of first appearance. Two encodings of the same graph have equal
// shapes even though their keys come from different sessions.
func Shape(v Value) Value {
	s := &shaper{keys: make(map[Number]Number)}
	return s.top(v)
}

type shaper struct {
	keys map[Number]Number
	next int64
}

func (s *shaper) top(v Value) Value {
	switch t := v.(type) {
	case Array:
		return s.nodes(t)
	case *Object:
		if t.Has(memberKey) {
			return s.node(t)
		}
		out := NewObject(t.Len())
		for _, m := range t.Members() {
			if arr, ok := m.Value.(Array); ok {
				out.Set(m.Name, s.nodes(arr))
			} else {
				out.Set(m.Name, s.node(m.Value))
			}
		}
		return out
	}
	return v
}

func (s *shaper) nodes(arr Array) Array {
	out := make(Array, len(arr))
	for i, v := range arr {
		out[i] = s.node(v)
	}
	return out
}

func (s *shaper) node(v Value) Value {
	obj, ok := v.(*Object)
	if !ok {
		return v
	}
	out := NewObject(obj.Len())
	for _, m := range obj.Members() {
		switch m.Name {
		case memberType:
			out.Set(m.Name, m.Value)
		case memberKey:
			out.Set(m.Name, s.key(m.Value))
		case memberProperties:
			out.Set(m.Name, s.properties(m.Value))
		default:
			out.Set(m.Name, s.node(m.Value))
		}
	}
	return out
}

func (s *shaper) properties(v Value) Value {
	props, ok := v.(*Object)
	if !ok {
		return v
	}
	out := NewObject(props.Len())
	for _, m := range props.Members() {
		switch t := m.Value.(type) {
		case *Object:
			out.Set(m.Name, s.node(t))
		case Array:
			out.Set(m.Name, s.nodes(t))
		default:
			out.Set(m.Name, t)
		}
	}
	return out
}

func (s *shaper) key(v Value) Value {
	n, ok := v.(Number)
	if !ok {
		return v
	}
	if k, ok := s.keys[n]; ok {
		return k
	}
	k := IntNumber(s.next)
	s.next++
	s.keys[n] = k
	return k
}

// Stats summarizes the nodes of a document.
type Stats struct {
	Full     int            // Nodes carrying a Type, continuations included
	Backrefs int            // Nodes carrying only a Key
	Types    map[string]int // Full nodes per discriminator
	MaxDepth int            // Deepest node nesting, roots at depth 1
}

// TypeNames returns the discriminators seen, sorted.
func (s Stats) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inspect counts the nodes of a document without resolving types.
func Inspect(v Value) Stats {
	st := Stats{Types: make(map[string]int)}
	var walk func(v Value, depth int)
	walkProps := func(v Value, depth int) {
		props, ok := v.(*Object)
		if !ok {
			return
		}
		for _, m := range props.Members() {
			switch t := m.Value.(type) {
			case *Object:
				walk(t, depth)
			case Array:
				for _, e := range t {
					walk(e, depth)
				}
			}
		}
	}
	walk = func(v Value, depth int) {
		obj, ok := v.(*Object)
		if !ok || !obj.Has(memberKey) {
			return
		}
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		raw, ok := obj.Get(memberType)
		if !ok {
			st.Backrefs++
			return
		}
		st.Full++
		if name, ok := raw.(string); ok {
			st.Types[name]++
		}
		for _, m := range obj.Members() {
			switch m.Name {
			case memberType, memberKey:
			case memberProperties:
				walkProps(m.Value, depth+1)
			default:
				walk(m.Value, depth+1)
			}
		}
	}

	switch t := v.(type) {
	case Array:
		for _, e := range t {
			walk(e, 1)
		}
	case *Object:
		if t.Has(memberKey) {
			walk(t, 1)
			break
		}
		for _, m := range t.Members() {
			if arr, ok := m.Value.(Array); ok {
				for _, e := range arr {
					walk(e, 1)
				}
			} else {
				walk(m.Value, 1)
			}
		}
	}
	return st
}
