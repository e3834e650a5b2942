package webidl

// Extended attribute names recognized anywhere in the grammar. Each
// construct accepts a closed subset; anything else is an attribute
// violation, never a silent default.
const (
	attrByRef      = "ByRef"
	attrEnum       = "Enum"
	attrError      = "Error"
	attrThreadsafe = "Threadsafe"
	attrThrows     = "Throws"
)

// InterfaceAttributes is the closed attribute set for interface
// definitions.
type InterfaceAttributes struct {
	EnumInterface bool
	Threadsafe    bool
}

func parseInterfaceAttributes(construct string, attrs []ExtendedAttribute) (InterfaceAttributes, error) {
	var out InterfaceAttributes
	for _, a := range attrs {
		switch a.Name {
		case attrEnum:
			out.EnumInterface = true
		case attrThreadsafe:
			out.Threadsafe = true
		case attrThrows:
			return out, compileErrorf(ErrIllegalAttribute, construct,
				"[Throws] is not valid on an interface; apply it to the member that can fail")
		case attrByRef, attrError:
			return out, compileErrorf(ErrIllegalAttribute, construct,
				"[%s] is not valid on an interface", a.Name)
		default:
			return out, compileErrorf(ErrUnknownAttribute, construct,
				"unknown attribute [%s]", a.Name)
		}
	}
	return out, nil
}

// EnumAttributes is the closed attribute set for enum definitions.
type EnumAttributes struct {
	Error bool
}

func parseEnumAttributes(construct string, attrs []ExtendedAttribute) (EnumAttributes, error) {
	var out EnumAttributes
	for _, a := range attrs {
		switch a.Name {
		case attrError:
			out.Error = true
		case attrByRef, attrEnum, attrThreadsafe, attrThrows:
			return out, compileErrorf(ErrIllegalAttribute, construct,
				"[%s] is not valid on an enum", a.Name)
		default:
			return out, compileErrorf(ErrUnknownAttribute, construct,
				"unknown attribute [%s]", a.Name)
		}
	}
	return out, nil
}

// MemberAttributes is the closed attribute set shared by constructors,
// methods and free functions: constructs that can report errors.
type MemberAttributes struct {
	Throws string
}

func parseMemberAttributes(construct string, attrs []ExtendedAttribute) (MemberAttributes, error) {
	var out MemberAttributes
	for _, a := range attrs {
		switch a.Name {
		case attrThrows:
			if a.Value == "" {
				return out, compileErrorf(ErrMalformedAttribute, construct,
					"[Throws] requires an error name, e.g. [Throws=MyError]")
			}
			out.Throws = a.Value
		case attrByRef, attrEnum, attrError, attrThreadsafe:
			return out, compileErrorf(ErrIllegalAttribute, construct,
				"[%s] is not valid on a callable member", a.Name)
		default:
			return out, compileErrorf(ErrUnknownAttribute, construct,
				"unknown attribute [%s]", a.Name)
		}
	}
	return out, nil
}

// ArgumentAttributes is the closed attribute set for callable
// arguments.
type ArgumentAttributes struct {
	ByRef bool
}

func parseArgumentAttributes(construct string, attrs []ExtendedAttribute) (ArgumentAttributes, error) {
	var out ArgumentAttributes
	for _, a := range attrs {
		switch a.Name {
		case attrByRef:
			if a.Value != "" {
				return out, compileErrorf(ErrMalformedAttribute, construct,
					"[ByRef] does not take a value")
			}
			out.ByRef = true
		case attrEnum, attrError, attrThreadsafe, attrThrows:
			return out, compileErrorf(ErrIllegalAttribute, construct,
				"[%s] is not valid on an argument", a.Name)
		default:
			return out, compileErrorf(ErrUnknownAttribute, construct,
				"unknown attribute [%s]", a.Name)
		}
	}
	return out, nil
}
