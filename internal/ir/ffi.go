package ir

import (
	"encoding/json"
	"fmt"
)

// FFIType is the lowered, language-agnostic representation of a type at
// the foreign-function boundary: a fixed-width scalar, an opaque object
// handle, or a length-prefixed byte buffer.
type FFIType int

const (
	FFIInt8 FFIType = iota
	FFIUInt8
	FFIInt16
	FFIUInt16
	FFIInt32
	FFIUInt32
	FFIInt64
	FFIUInt64
	FFIFloat32
	FFIFloat64
	FFIByteBuffer
)

// FFIHandle is the lowered representation of an object reference: an
// opaque fixed-width unsigned integer identifying a live instance across
// the boundary.
const FFIHandle = FFIUInt64

func (t FFIType) String() string {
	switch t {
	case FFIInt8:
		return "i8"
	case FFIUInt8:
		return "u8"
	case FFIInt16:
		return "i16"
	case FFIUInt16:
		return "u16"
	case FFIInt32:
		return "i32"
	case FFIUInt32:
		return "u32"
	case FFIInt64:
		return "i64"
	case FFIUInt64:
		return "u64"
	case FFIFloat32:
		return "f32"
	case FFIFloat64:
		return "f64"
	case FFIByteBuffer:
		return "bytebuffer"
	default:
		return fmt.Sprintf("ffitype-%d", int(t))
	}
}

// MarshalJSON renders an FFIType as its string spelling.
func (t FFIType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the string spelling back into an FFIType.
func (t *FFIType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for c := FFIInt8; c <= FFIByteBuffer; c++ {
		if c.String() == s {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown FFI type %q", s)
}

// FFIArgument is a lowered argument of a flat function.
type FFIArgument struct {
	Name string  `json:"name"`
	Type FFIType `json:"type"`
}

// FFIFunction is a flat, ABI-stable function signature derived from a
// high-level definition. A nil ReturnType means the function returns
// nothing; a void return never lowers to a zero-length buffer.
type FFIFunction struct {
	Name       string        `json:"name"`
	Arguments  []FFIArgument `json:"arguments"`
	ReturnType *FFIType      `json:"return_type,omitempty"`
}

// LowerType maps a semantic type onto its flat FFI representation.
// Enums always lower to buffer passing whether or not they carry
// associated data.
func LowerType(t Type) FFIType {
	switch t.Kind {
	case TypeUInt8:
		return FFIUInt8
	case TypeInt8:
		return FFIInt8
	case TypeUInt16:
		return FFIUInt16
	case TypeInt16:
		return FFIInt16
	case TypeUInt32:
		return FFIUInt32
	case TypeInt32:
		return FFIInt32
	case TypeUInt64:
		return FFIUInt64
	case TypeInt64:
		return FFIInt64
	case TypeFloat32:
		return FFIFloat32
	case TypeFloat64:
		return FFIFloat64
	case TypeBoolean:
		// booleans cross the boundary as a fixed-width byte
		return FFIInt8
	case TypeString, TypeOptional, TypeSequence, TypeEnum, TypeRecord, TypeError:
		return FFIByteBuffer
	case TypeObject:
		return FFIHandle
	default:
		panic(fmt.Sprintf("unknown type kind: %d", int(t.Kind)))
	}
}

// lowerArguments lowers a logical argument list.
func lowerArguments(args []Argument) []FFIArgument {
	lowered := make([]FFIArgument, 0, len(args))
	for _, arg := range args {
		lowered = append(lowered, FFIArgument{
			Name: arg.Name,
			Type: LowerType(arg.Type),
		})
	}
	return lowered
}

// lowerReturn lowers an optional return type. nil stays nil.
func lowerReturn(t *Type) *FFIType {
	if t == nil {
		return nil
	}
	lowered := LowerType(*t)
	return &lowered
}
