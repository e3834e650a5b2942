// Package tagged converts attribute-tagged native declaration trees
// into the canonical interface model. This is the second front end:
// instead of a standalone definition file, the component interface is
// carried as attributes on the declarations of the implementation
// language, pre-parsed into the node types below.
//
// Both front ends target the same builder, so a logically identical
// interface yields an identical model regardless of which surface
// declared it.
package tagged

// Module is one parsed source module: the component namespace plus its
// tagged declarations.
type Module struct {
	Name  string
	Decls []Decl
}

// Decl is the sealed marker over top-level declaration nodes. Doc
// comments attached to a declaration arrive pre-collected on its Docs
// field and carry into the model; they never affect checksums.
type Decl interface{ decl() }

// EnumDecl is a tagged enum declaration. Without attributes it declares
// a plain or data-carrying enum depending on its variant fields; with a
// `error` attribute it declares an error enumeration.
type EnumDecl struct {
	Name     string
	Docs     []string
	Attrs    []Attr
	Variants []VariantDecl
}

func (*EnumDecl) decl() {}

// VariantDecl is one enum variant. An explicit discriminant is rejected;
// the model identifies variants by name and declaration order only.
type VariantDecl struct {
	Name         string
	Discriminant *int64 // rejected when non-nil
	Fields       []FieldDecl
}

// FieldDecl is a named field of a variant or struct. Tuple-style
// unnamed fields are rejected.
type FieldDecl struct {
	Name   string
	Type   TypeExpr
	Public bool
}

// StructDecl is a tagged struct. With a `record` attribute it declares
// a record whose public fields are the record fields; without it the
// struct declares an object whose interface is supplied by impl blocks.
type StructDecl struct {
	Name   string
	Docs   []string
	Attrs  []Attr
	Fields []FieldDecl
}

func (*StructDecl) decl() {}

// ImplDecl is a tagged impl block attaching callables to an object.
// Multiple impl blocks for the same object accumulate.
type ImplDecl struct {
	TypeName string
	Attrs    []Attr
	Methods  []MethodDecl
}

func (*ImplDecl) decl() {}

// MethodDecl is one callable inside an impl block. A receiver makes it
// an instance method; without a receiver it is a static method, except
// the constructor name which declares the object's constructor.
type MethodDecl struct {
	Name        string
	Docs        []string
	HasReceiver bool
	Arguments   []ParamDecl
	ReturnType  *TypeExpr
	Attrs       []Attr
}

// FnDecl is a tagged free function.
type FnDecl struct {
	Name       string
	Docs       []string
	Arguments  []ParamDecl
	ReturnType *TypeExpr
	Attrs      []Attr
}

func (*FnDecl) decl() {}

// ParamDecl is a single callable parameter. ByRef marks parameters
// declared as references; the flag travels into the model but never
// changes the lowered FFI shape.
type ParamDecl struct {
	Name  string
	Type  TypeExpr
	ByRef bool
}

// Attr is a lowercase tag attached to a declaration, e.g. `record`,
// `threadsafe` or `throws=MyError`.
type Attr struct {
	Name  string
	Value string
}

// TypeExpr is a parsed type use. Scalars and declared names appear as
// bare identifiers; `option<T>` and `list<T>` are the only recognized
// generic forms.
type TypeExpr struct {
	Name string
	Args []TypeExpr
}

func hasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
