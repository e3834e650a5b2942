package ir

// Record represents a dictionary-style aggregate of named, typed fields
// passed by value across the boundary. Records cannot contain object
// references; objects are reference types, not embeddable by value.
type Record struct {
	Name   string   `json:"name"`
	Fields []Field  `json:"fields"`
	Docs   []string `json:"docs,omitempty"`
}

func (r *Record) checksumContent() IRObject {
	fields := make(IRArray, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, f.checksumContent())
	}
	return IRObject{
		"name":   IRString(r.Name),
		"fields": fields,
	}
}

// Field is a named, typed member of a Record or an enum Variant.
// Variant fields never carry defaults; the front ends reject them.
type Field struct {
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	Required bool    `json:"required"`
	Default  IRValue `json:"default,omitempty"`
}

func (f *Field) checksumContent() IRObject {
	content := IRObject{
		"name":     IRString(f.Name),
		"type":     IRString(f.Type.CanonicalName()),
		"required": IRBool(f.Required),
	}
	if f.Default != nil {
		content["default"] = f.Default
	}
	return content
}

// ErrorDef represents a named error enumeration usable as a throws
// target. Errors cross the FFI as buffers when used as a type.
type ErrorDef struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
	Docs   []string `json:"docs,omitempty"`
}

func (e *ErrorDef) checksumContent() IRObject {
	values := make(IRArray, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, IRString(v))
	}
	return IRObject{
		"name":   IRString(e.Name),
		"values": values,
	}
}
