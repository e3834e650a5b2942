// Package webidl converts already-parsed WebIDL-styled interface
// definition trees into the canonical interface model.
//
// Tokenizing and parsing the textual grammar is an external concern: the
// node types in this file are the hand-off surface a parser front end
// populates. Conversion is a single synchronous pass that fails fast on
// the first violation.
package webidl

// Document is a parsed interface definition source: one namespace plus
// any number of type definitions.
type Document struct {
	Definitions []Definition
}

// Definition is the sealed marker over top-level definition nodes.
type Definition interface{ definition() }

// Namespace declares the component namespace and its free-standing
// functions.
type Namespace struct {
	Name    string
	Members []Operation
}

func (*Namespace) definition() {}

// EnumDef is a plain string-list enumeration, e.g.
//
//	enum Mode { "fast", "slow" };
//
// With an [Error] extended attribute it declares an error enumeration
// instead.
type EnumDef struct {
	Name       string
	Attributes []ExtendedAttribute
	Values     []string
}

func (*EnumDef) definition() {}

// InterfaceDef is an `interface` block. Plain interfaces convert to
// objects; with an [Enum] extended attribute the same syntax declares a
// data-carrying enum whose members are variants.
type InterfaceDef struct {
	Name        string
	Attributes  []ExtendedAttribute
	Inheritance string // rejected when non-empty
	Members     []InterfaceMember
}

func (*InterfaceDef) definition() {}

// DictionaryDef is a `dictionary` block converting to a record.
type DictionaryDef struct {
	Name        string
	Inheritance string // rejected when non-empty
	Members     []DictionaryMember
}

func (*DictionaryDef) definition() {}

// InterfaceMember is the sealed marker over interface body nodes.
type InterfaceMember interface{ interfaceMember() }

// ConstructorMember is a `constructor(...)` interface member.
type ConstructorMember struct {
	Attributes []ExtendedAttribute
	Arguments  []Argument
}

func (*ConstructorMember) interfaceMember() {}

// Operation is an operation member of an interface or namespace. A nil
// ReturnType is a void return. In the data-carrying enum form the
// operation is anonymous and its return-type identifier token is
// reinterpreted as the variant name.
type Operation struct {
	Name        string // empty = anonymous
	Special     string // getter/setter/deleter; rejected
	Static      bool
	Stringifier bool // rejected
	ReturnType  *TypeExpr
	Arguments   []Argument
	Attributes  []ExtendedAttribute
}

func (*Operation) interfaceMember() {}

// Argument is a single operation argument.
type Argument struct {
	Name       string
	Type       TypeExpr
	Variadic   bool // rejected
	Optional   bool
	Default    *Literal
	Attributes []ExtendedAttribute
}

// DictionaryMember is a single dictionary field.
type DictionaryMember struct {
	Name     string
	Type     TypeExpr
	Required bool
	Default  *Literal
}

// TypeExpr is a parsed type use: a bare identifier (scalar spelling or
// definition name), or sequence<Elem>. Nullable marks the trailing `?`.
type TypeExpr struct {
	Name     string
	Elem     *TypeExpr // sequence element type
	Nullable bool
}

// LiteralKind discriminates default value literals.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralBool
)

// Literal is a default value literal.
type Literal struct {
	Kind   LiteralKind
	String string
	Int    int64
	Bool   bool
}

// ExtendedAttribute is a bracket-style modifier, e.g. [Enum],
// [Threadsafe] or [Throws=MyError]. Value holds the identifier right of
// the equals sign, if any.
type ExtendedAttribute struct {
	Name  string
	Value string
}

func hasAttribute(attrs []ExtendedAttribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
