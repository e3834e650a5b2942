package ir

// Enum represents an enumeration with named variants, each of which may
// carry named, typed fields. Both a plain string-list enumeration and a
// data-carrying enum interface desugar into this one shape.
//
// Enums are passed across the FFI by serializing to a byte buffer: a
// variant index followed by the serialization of each field.
//
// Variant order is insertion order. Duplicate variant names are
// currently accepted and preserved; callers get exactly what was
// declared.
type Enum struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
	Docs     []string  `json:"docs,omitempty"`
}

// HasAssociatedData reports whether any variant carries fields.
func (e *Enum) HasAssociatedData() bool {
	for _, v := range e.Variants {
		if v.HasFields() {
			return true
		}
	}
	return false
}

func (e *Enum) checksumContent() IRObject {
	variants := make(IRArray, 0, len(e.Variants))
	for _, v := range e.Variants {
		variants = append(variants, v.checksumContent())
	}
	return IRObject{
		"name":     IRString(e.Name),
		"variants": variants,
	}
}

// Variant is an individual variant in an Enum: a name and zero or more
// fields.
type Variant struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields,omitempty"`
}

// HasFields reports whether the variant carries associated data.
func (v *Variant) HasFields() bool {
	return len(v.Fields) > 0
}

func (v *Variant) checksumContent() IRObject {
	fields := make(IRArray, 0, len(v.Fields))
	for _, f := range v.Fields {
		fields = append(fields, f.checksumContent())
	}
	return IRObject{
		"name":   IRString(v.Name),
		"fields": fields,
	}
}
