package tagged

// Attribute names recognized anywhere in the tagged surface. Each
// declaration kind accepts a closed subset.
const (
	attrError      = "error"
	attrRecord     = "record"
	attrThreadsafe = "threadsafe"
	attrThrows     = "throws"
)

// EnumAttrs is the closed attribute set for enum declarations.
type EnumAttrs struct {
	Error bool
}

func parseEnumAttrs(construct string, attrs []Attr) (EnumAttrs, error) {
	var out EnumAttrs
	for _, a := range attrs {
		switch a.Name {
		case attrError:
			out.Error = true
		case attrRecord, attrThreadsafe, attrThrows:
			return out, convertErrorf(ErrIllegalAttr, construct,
				"`%s` is not valid on an enum", a.Name)
		default:
			return out, convertErrorf(ErrUnknownAttr, construct,
				"unknown attribute `%s`", a.Name)
		}
	}
	return out, nil
}

// StructAttrs is the closed attribute set for struct declarations.
// `threadsafe` only applies to object structs.
type StructAttrs struct {
	Record     bool
	Threadsafe bool
}

func parseStructAttrs(construct string, attrs []Attr) (StructAttrs, error) {
	var out StructAttrs
	for _, a := range attrs {
		switch a.Name {
		case attrRecord:
			out.Record = true
		case attrThreadsafe:
			out.Threadsafe = true
		case attrError, attrThrows:
			return out, convertErrorf(ErrIllegalAttr, construct,
				"`%s` is not valid on a struct", a.Name)
		default:
			return out, convertErrorf(ErrUnknownAttr, construct,
				"unknown attribute `%s`", a.Name)
		}
	}
	if out.Record && out.Threadsafe {
		return out, convertErrorf(ErrIllegalAttr, construct,
			"`threadsafe` is not valid on a record struct")
	}
	return out, nil
}

// CallableAttrs is the closed attribute set for methods and free
// functions.
type CallableAttrs struct {
	Throws string
}

func parseCallableAttrs(construct string, attrs []Attr) (CallableAttrs, error) {
	var out CallableAttrs
	for _, a := range attrs {
		switch a.Name {
		case attrThrows:
			if a.Value == "" {
				return out, convertErrorf(ErrMalformedAttr, construct,
					"`throws` requires an error name, e.g. throws=MyError")
			}
			out.Throws = a.Value
		case attrError, attrRecord, attrThreadsafe:
			return out, convertErrorf(ErrIllegalAttr, construct,
				"`%s` is not valid on a callable", a.Name)
		default:
			return out, convertErrorf(ErrUnknownAttr, construct,
				"unknown attribute `%s`", a.Name)
		}
	}
	return out, nil
}

func parseImplAttrs(construct string, attrs []Attr) error {
	if len(attrs) == 0 {
		return nil
	}
	a := attrs[0]
	switch a.Name {
	case attrError, attrRecord, attrThreadsafe, attrThrows:
		return convertErrorf(ErrIllegalAttr, construct,
			"`%s` is not valid on an impl block", a.Name)
	default:
		return convertErrorf(ErrUnknownAttr, construct,
			"unknown attribute `%s`", a.Name)
	}
}
