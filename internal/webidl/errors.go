package webidl

import "fmt"

// Conversion error codes. The set mirrors the error categories of the
// conversion layer: document shape (E1xx), unsupported syntax (E2xx),
// structural violations (E3xx), semantic violations (E4xx) and
// attribute violations (E5xx).
const (
	ErrNoNamespace       = "E101" // document has no namespace definition
	ErrMultipleNamespace = "E102" // document has more than one namespace

	ErrInheritance       = "E201" // interface/dictionary inheritance
	ErrVariadicArgument  = "E202" // variadic arguments
	ErrSpecialOperation  = "E203" // getter/setter/deleter operations
	ErrStringifier       = "E204" // stringifier operations
	ErrUnsupportedMember = "E205" // unknown interface member kind

	ErrAnonymousMethod     = "E301" // operation without a name
	ErrReservedName        = "E302" // method named by the constructor token
	ErrEnumMemberShape     = "E303" // malformed data-carrying enum member
	ErrVariantFieldDefault = "E304" // default value on a variant field
	ErrVariantFieldAttrs   = "E305" // attributes on a variant field

	ErrObjectInFieldData = "E401" // object type embedded as field data
	ErrUnknownType       = "E402" // unresolvable type name

	ErrUnknownAttribute   = "E501" // attribute not in the construct's closed set
	ErrIllegalAttribute   = "E502" // attribute illegal on this construct
	ErrMalformedAttribute = "E503" // attribute with a missing or malformed value
)

// CompileError is the single conversion error kind: a stable code, the
// construct being converted, and a human-readable message. Conversion is
// fail-fast; the first violation aborts the enclosing definition and
// propagates verbatim to the driver.
type CompileError struct {
	Code      string
	Construct string
	Message   string
}

func (e *CompileError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Construct, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func compileErrorf(code, construct, format string, args ...any) *CompileError {
	return &CompileError{
		Code:      code,
		Construct: construct,
		Message:   fmt.Sprintf(format, args...),
	}
}
