package skein

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType is the declared semantic type of a field.
type FieldType int

const (
	TypeString FieldType = iota + 1
	TypeInteger
	TypeLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBoolean
	TypeEnum
	TypeDateTime
	TypeDuration
	TypeReference
	TypeReferenceList
)

var fieldTypeNames = map[FieldType]string{
	TypeString:        "string",
	TypeInteger:       "integer",
	TypeLong:          "long",
	TypeFloat:         "float",
	TypeDouble:        "double",
	TypeDecimal:       "decimal",
	TypeBoolean:       "boolean",
	TypeEnum:          "enum",
	TypeDateTime:      "date-time",
	TypeDuration:      "duration",
	TypeReference:     "reference",
	TypeReferenceList: "reference-list",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Kind returns the traversal kind derived from the declared type.
func (t FieldType) Kind() Kind {
	switch t {
	case TypeReference:
		return KindReference
	case TypeReferenceList:
		return KindReferenceList
	default:
		return KindScalar
	}
}

// Kind selects how the encoder, decoder and equality checker treat a field.
type Kind int

const (
	KindScalar Kind = iota + 1
	KindReference
	KindReferenceList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindReference:
		return "reference"
	case KindReferenceList:
		return "reference-list"
	default:
		return "unknown"
	}
}

// Classification places an entity type in the inheritance hierarchy.
type Classification int

const (
	// ClassBase is the root providing identity.
	ClassBase Classification = iota + 1
	// ClassStrong sits exactly one persisted level below Base.
	ClassStrong
	// ClassSub inherits from another entity type and shares its identity.
	ClassSub
)

func (c Classification) String() string {
	switch c {
	case ClassBase:
		return "base"
	case ClassStrong:
		return "strong"
	case ClassSub:
		return "sub"
	default:
		return "unknown"
	}
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	decimalType  = reflect.TypeFor[decimal.Decimal]()
	recordType   = reflect.TypeFor[Record]()
)

// scalarType maps a Go type to its scalar semantic type. Pointers are
// unwrapped once and mark the field nullable.
func scalarType(rt reflect.Type) (FieldType, bool) {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt {
	case timeType:
		return TypeDateTime, true
	case durationType:
		return TypeDuration, true
	case decimalType:
		return TypeDecimal, true
	}

	named := rt.PkgPath() != ""
	switch rt.Kind() {
	case reflect.String:
		return TypeString, true
	case reflect.Bool:
		return TypeBoolean, true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		if named {
			return TypeEnum, true
		}
		return TypeInteger, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		if named {
			return TypeEnum, true
		}
		if rt.Kind() == reflect.Int {
			return TypeInteger, true
		}
		return TypeLong, true
	case reflect.Float32:
		return TypeFloat, true
	case reflect.Float64:
		return TypeDouble, true
	}
	return 0, false
}

// isReferenceType reports whether rt can hold a single entity: a pointer
// to an entity struct, or an interface type that embeds Record.
func isReferenceType(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Pointer:
		return rt.Elem().Kind() == reflect.Struct && isEntityStruct(rt.Elem())
	case reflect.Interface:
		return rt.Implements(recordType)
	}
	return false
}

// classifyField derives the declared type of a Go field.
func classifyField(rt reflect.Type) (FieldType, bool) {
	if isReferenceType(rt) {
		return TypeReference, true
	}
	if rt.Kind() == reflect.Slice && isReferenceType(rt.Elem()) {
		return TypeReferenceList, true
	}
	return scalarType(rt)
}
