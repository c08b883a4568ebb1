package skein

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Equal reports whether two records are structurally identical: same
// concrete types and equal values across every inherited field, hidden
// fields included. References are compared recursively and reference
// lists by length and position.
//
// A pair of records already under comparison is treated as equal when it
// is reached again. This terminates on cyclic graphs but accepts some
// divergent cycles as equal.
func (s *Schema) Equal(a, b Record) (bool, error) {
	eq := &equalizer{schema: s, seen: make(map[reflect.Type]map[[2]Record]struct{})}
	return eq.records(a, b)
}

type equalizer struct {
	schema *Schema
	seen   map[reflect.Type]map[[2]Record]struct{}
}

func (eq *equalizer) records(a, b Record) (bool, error) {
	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		return aNil == bNil, nil
	}
	if a == b {
		return true, nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false, nil
	}

	t := ta.Elem()
	pairs := eq.seen[t]
	if pairs == nil {
		pairs = make(map[[2]Record]struct{})
		eq.seen[t] = pairs
	}
	if _, ok := pairs[[2]Record{a, b}]; ok {
		return true, nil
	}
	if _, ok := pairs[[2]Record{b, a}]; ok {
		return true, nil
	}
	pairs[[2]Record{a, b}] = struct{}{}

	levels, err := eq.schema.chain(t)
	if err != nil {
		return false, err
	}
	va, vb := reflect.ValueOf(a).Elem(), reflect.ValueOf(b).Elem()
	for _, lv := range levels {
		for _, f := range lv.fields {
			idx := concatPath(lv.path, f.path)
			same, err := eq.field(f.Field, va.FieldByIndex(idx), vb.FieldByIndex(idx))
			if err != nil || !same {
				return false, err
			}
		}
	}
	return true, nil
}

func (eq *equalizer) field(f *Field, a, b reflect.Value) (bool, error) {
	switch f.Kind {
	case KindScalar:
		return scalarEqual(a, b), nil

	case KindReference:
		ra, _, err := recordAt(a)
		if err != nil {
			return false, err
		}
		rb, _, err := recordAt(b)
		if err != nil {
			return false, err
		}
		return eq.records(ra, rb)

	case KindReferenceList:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil(), nil
		}
		if a.Len() != b.Len() {
			return false, nil
		}
		for i := 0; i < a.Len(); i++ {
			ra, _, err := recordAt(a.Index(i))
			if err != nil {
				return false, err
			}
			rb, _, err := recordAt(b.Index(i))
			if err != nil {
				return false, err
			}
			same, err := eq.records(ra, rb)
			if err != nil || !same {
				return false, err
			}
		}
		return true, nil
	}
	return false, newSchemaError(f.Owner.String(), f.Name, "unknown field kind")
}

func scalarEqual(a, b reflect.Value) bool {
	if a.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		a, b = a.Elem(), b.Elem()
	}
	switch x := a.Interface().(type) {
	case time.Time:
		return x.Equal(b.Interface().(time.Time))
	case decimal.Decimal:
		return x.Equal(b.Interface().(decimal.Decimal))
	}
	return a.Interface() == b.Interface()
}
