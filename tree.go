package skein

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a node of a document tree exchanged with a Codec.
//
// The dynamic type of a Value is one of:
//
//	nil      - null
//	bool     - boolean
//	string   - string
//	Number   - numeric literal
//	Array    - ordered list of values
//	*Object  - ordered set of named members
//
// Any other dynamic type is rejected by codecs and by the decoder.
type Value = any

// Array is an ordered list of values.
type Array []Value

// Number is a numeric literal kept as text so that integer and floating
// point tokens stay distinguishable after a round trip through a codec.
type Number string

// IsInteger reports whether the literal has no fraction or exponent part.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// Int64 parses the literal as a base 10 integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Uint64 parses the literal as a base 10 unsigned integer.
func (n Number) Uint64() (uint64, error) {
	return strconv.ParseUint(string(n), 10, 64)
}

// Float64 parses the literal as a floating point number.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// IntNumber formats an integer literal.
func IntNumber(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// UintNumber formats an unsigned integer literal.
func UintNumber(u uint64) Number {
	return Number(strconv.FormatUint(u, 10))
}

// FloatNumber formats a floating point literal with the shortest
// representation for the given bit size. The result always carries a
// fraction or exponent so it reads back as a float token.
func FloatNumber(f float64, bitSize int) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("unsupported float value %v", f)
	}
	return FloatLiteral(strconv.FormatFloat(f, 'g', -1, bitSize)), nil
}

// FloatLiteral marks an already formatted decimal literal as a float token,
// appending ".0" when it has neither fraction nor exponent.
func FloatLiteral(s string) Number {
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number(s)
}

// Member is a named value inside an Object.
type Member struct {
	Name  string
	Value Value
}

// Object is an ordered set of members. Member order is preserved by codecs.
type Object struct {
	members []Member
}

// NewObject returns an empty object with room for n members.
func NewObject(n int) *Object {
	return &Object{members: make([]Member, 0, n)}
}

// Set replaces the value of an existing member or appends a new one.
func (o *Object) Set(name string, v Value) {
	for i := range o.members {
		if o.members[i].Name == name {
			o.members[i].Value = v
			return
		}
	}
	o.members = append(o.members, Member{Name: name, Value: v})
}

// Get returns the value of the named member.
func (o *Object) Get(name string) (Value, bool) {
	for _, m := range o.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Has reports whether the named member exists.
func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns the members in order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Names returns the member names in order.
func (o *Object) Names() []string {
	names := make([]string, len(o.members))
	for i, m := range o.members {
		names[i] = m.Name
	}
	return names
}

// tokenName describes a value's kind for error messages.
func tokenName(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case Number:
		if t.IsInteger() {
			return "integer"
		}
		return "float"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
