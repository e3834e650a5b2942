package ir

import (
	"encoding/json"
	"fmt"
)

// TypeKind discriminates the semantic type variant.
type TypeKind int

const (
	TypeUInt8 TypeKind = iota
	TypeInt8
	TypeUInt16
	TypeInt16
	TypeUInt32
	TypeInt32
	TypeUInt64
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBoolean
	TypeString
	TypeOptional
	TypeSequence
	TypeEnum
	TypeRecord
	TypeObject
	TypeError
)

// Type is a tagged variant over the semantic types the model supports.
// Optional and Sequence carry an element type; Enum, Record, Object and
// Error carry the name of the definition they reference.
type Type struct {
	Kind TypeKind
	Name string // named kinds only
	Elem *Type  // Optional and Sequence only
}

// scalarByName maps bare identifier spellings to their scalar types.
var scalarByName = map[string]TypeKind{
	"u8":     TypeUInt8,
	"i8":     TypeInt8,
	"u16":    TypeUInt16,
	"i16":    TypeInt16,
	"u32":    TypeUInt32,
	"i32":    TypeInt32,
	"u64":    TypeUInt64,
	"i64":    TypeInt64,
	"f32":    TypeFloat32,
	"f64":    TypeFloat64,
	"bool":   TypeBoolean,
	"string": TypeString,
}

// ScalarType looks up a scalar type by its identifier spelling.
func ScalarType(name string) (Type, bool) {
	kind, ok := scalarByName[name]
	if !ok {
		return Type{}, false
	}
	return Type{Kind: kind}, true
}

// OptionalType wraps elem in an Optional.
func OptionalType(elem Type) Type {
	return Type{Kind: TypeOptional, Elem: &elem}
}

// SequenceType wraps elem in a Sequence.
func SequenceType(elem Type) Type {
	return Type{Kind: TypeSequence, Elem: &elem}
}

// EnumType references the enum definition with the given name.
func EnumType(name string) Type {
	return Type{Kind: TypeEnum, Name: name}
}

// RecordType references the record definition with the given name.
func RecordType(name string) Type {
	return Type{Kind: TypeRecord, Name: name}
}

// ObjectType references the object definition with the given name.
func ObjectType(name string) Type {
	return Type{Kind: TypeObject, Name: name}
}

// ErrorType references the error definition with the given name.
func ErrorType(name string) Type {
	return Type{Kind: TypeError, Name: name}
}

// CanonicalName returns the deterministic string key over the type's
// structure. Structurally identical type expressions always share one
// canonical name regardless of how many places reference them, e.g. a
// nullable string is "Optionalstring" wherever it appears.
func (t Type) CanonicalName() string {
	switch t.Kind {
	case TypeUInt8:
		return "u8"
	case TypeInt8:
		return "i8"
	case TypeUInt16:
		return "u16"
	case TypeInt16:
		return "i16"
	case TypeUInt32:
		return "u32"
	case TypeInt32:
		return "i32"
	case TypeUInt64:
		return "u64"
	case TypeInt64:
		return "i64"
	case TypeFloat32:
		return "f32"
	case TypeFloat64:
		return "f64"
	case TypeBoolean:
		return "bool"
	case TypeString:
		return "string"
	case TypeOptional:
		return "Optional" + t.Elem.CanonicalName()
	case TypeSequence:
		return "Sequence" + t.Elem.CanonicalName()
	case TypeEnum:
		return "Enum" + t.Name
	case TypeRecord:
		return "Record" + t.Name
	case TypeObject:
		return "Object" + t.Name
	case TypeError:
		return "Error" + t.Name
	default:
		panic(fmt.Sprintf("unknown type kind: %d", int(t.Kind)))
	}
}

// MarshalJSON renders a type as its canonical name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.CanonicalName())
}

// ContainsObject reports whether the type is, or wraps, an object type.
// Object handles never travel inside serialized field data.
func (t Type) ContainsObject() bool {
	if t.Kind == TypeObject {
		return true
	}
	if t.Elem != nil {
		return t.Elem.ContainsObject()
	}
	return false
}

// TypeUniverse canonicalizes type expressions and tracks every type the
// component mentions, keyed by canonical name in first-seen order.
//
// Named types may be resolved before the referenced definition's member
// list is complete: only the name must have been declared. Checking that
// the finished definition set is consistent happens at finalize time,
// not at individual resolution sites.
type TypeUniverse struct {
	byCanonical map[string]Type
	order       []string
	named       map[string]Type // declared definition name -> named type
}

// NewTypeUniverse creates an empty universe.
func NewTypeUniverse() *TypeUniverse {
	return &TypeUniverse{
		byCanonical: make(map[string]Type),
		named:       make(map[string]Type),
	}
}

// DeclareName registers a definition name with its named type. Front-end
// drivers declare all top-level names before converting members so that
// forward references resolve. Redeclaring a name with a different kind
// is an error; an identical redeclaration is a no-op.
func (u *TypeUniverse) DeclareName(name string, t Type) error {
	if existing, ok := u.named[name]; ok {
		if existing.Kind != t.Kind {
			return fmt.Errorf("conflicting declarations for type name %q", name)
		}
		return nil
	}
	u.named[name] = t
	return nil
}

// ResolveName resolves a bare identifier to a canonical type: scalar
// spellings first, then declared definition names. Resolving an unknown
// name is a hard error that aborts the enclosing conversion.
func (u *TypeUniverse) ResolveName(name string) (Type, error) {
	if t, ok := ScalarType(name); ok {
		return u.Register(t), nil
	}
	if t, ok := u.named[name]; ok {
		return u.Register(t), nil
	}
	return Type{}, fmt.Errorf("unknown type name %q", name)
}

// Register canonicalizes t, recording it the first time its canonical
// name is seen. Registering is idempotent: the same structure always
// resolves to the same entry.
func (u *TypeUniverse) Register(t Type) Type {
	key := t.CanonicalName()
	if existing, ok := u.byCanonical[key]; ok {
		return existing
	}
	if t.Elem != nil {
		elem := u.Register(*t.Elem)
		t.Elem = &elem
	}
	u.byCanonical[key] = t
	u.order = append(u.order, key)
	return t
}

// Types returns every registered type in first-seen order.
func (u *TypeUniverse) Types() []Type {
	types := make([]Type, 0, len(u.order))
	for _, key := range u.order {
		types = append(types, u.byCanonical[key])
	}
	return types
}

// ContainsCanonical reports whether a type with the given canonical name
// has been registered.
func (u *TypeUniverse) ContainsCanonical(name string) bool {
	_, ok := u.byCanonical[name]
	return ok
}

// NamedType returns the declared named type for a definition name.
func (u *TypeUniverse) NamedType(name string) (Type, bool) {
	t, ok := u.named[name]
	return t, ok
}
