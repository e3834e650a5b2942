package tagged

import "fmt"

// Conversion error codes for the tagged front end. The numbering
// mirrors the definition-file front end: declaration shape (N1xx),
// callable shape (N2xx), type violations (N4xx) and attribute
// violations (N5xx).
const (
	ErrDiscriminant = "N101" // explicit variant discriminant
	ErrUnnamedField = "N102" // tuple-style unnamed field
	ErrPrivateField = "N103" // non-public field on a record
	ErrEmptyModule  = "N104" // module without a name
	ErrErrorFields  = "N105" // fields on an error enum variant

	ErrImplTarget            = "N201" // impl block for a non-object type
	ErrReceiverOnConstructor = "N202" // constructor declared with a receiver
	ErrConstructorReturn     = "N203" // constructor declaring a return type

	ErrObjectInFieldData = "N401" // object type embedded as field data
	ErrUnknownType       = "N402" // unresolvable type name
	ErrGenericType       = "N403" // unsupported generic form

	ErrUnknownAttr   = "N501" // attribute not in the construct's closed set
	ErrIllegalAttr   = "N502" // attribute illegal on this construct
	ErrMalformedAttr = "N503" // attribute missing its required value
)

// ConvertError is the single conversion error kind of this front end,
// shaped like the definition-file front end's errors: a stable code,
// the construct being converted, and a message.
type ConvertError struct {
	Code      string
	Construct string
	Message   string
}

func (e *ConvertError) Error() string {
	if e.Construct != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Construct, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func convertErrorf(code, construct, format string, args ...any) *ConvertError {
	return &ConvertError{
		Code:      code,
		Construct: construct,
		Message:   fmt.Sprintf(format, args...),
	}
}
