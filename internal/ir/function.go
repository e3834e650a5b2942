package ir

import "fmt"

// Argument is a named, typed parameter of a callable member.
type Argument struct {
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	ByRef    bool    `json:"by_ref"`
	Optional bool    `json:"optional"`
	Default  IRValue `json:"default,omitempty"`
}

func (a *Argument) checksumContent() IRObject {
	content := IRObject{
		"name":     IRString(a.Name),
		"type":     IRString(a.Type.CanonicalName()),
		"by_ref":   IRBool(a.ByRef),
		"optional": IRBool(a.Optional),
	}
	if a.Default != nil {
		content["default"] = a.Default
	}
	return content
}

func argumentsContent(args []Argument) IRArray {
	content := make(IRArray, 0, len(args))
	for _, a := range args {
		content = append(content, a.checksumContent())
	}
	return content
}

// Function represents a free-standing function exposed in the component
// namespace. Throws is the name of the error definition the function may
// report, or empty.
type Function struct {
	Name       string      `json:"name"`
	Arguments  []Argument  `json:"arguments"`
	ReturnType *Type       `json:"return_type,omitempty"`
	Throws     string      `json:"throws,omitempty"`
	FFIFunc    FFIFunction `json:"ffi_func"`
	Docs       []string    `json:"docs,omitempty"`
}

func (f *Function) checksumContent() IRObject {
	content := IRObject{
		"name":      IRString(f.Name),
		"arguments": argumentsContent(f.Arguments),
		"throws":    IRString(f.Throws),
	}
	if f.ReturnType != nil {
		content["return_type"] = IRString(f.ReturnType.CanonicalName())
	}
	return content
}

// deriveFFIFunc computes the flat signature for a free function.
// Free functions have no object segment in their symbol name.
func (f *Function) deriveFFIFunc(ciPrefix string) error {
	sum, err := Checksum(f)
	if err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	f.FFIFunc = FFIFunction{
		Name:       fmt.Sprintf("%s_%s_%s", ciPrefix, f.Name, sum),
		Arguments:  lowerArguments(f.Arguments),
		ReturnType: lowerReturn(f.ReturnType),
	}
	return nil
}
