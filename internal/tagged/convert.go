package tagged

import (
	"errors"
	"fmt"

	"github.com/roach88/ffikit/internal/ir"
)

// Compile converts a parsed module into a finalized ComponentInterface.
//
// Conversion runs in three passes: declare every tagged name, convert
// the type declarations, then attach impl-block callables to their
// objects. Impl blocks may therefore precede the struct they extend.
func Compile(mod *Module) (*ir.ComponentInterface, error) {
	if mod.Name == "" {
		return nil, convertErrorf(ErrEmptyModule, "", "the module must declare a namespace name")
	}
	b := ir.NewBuilder(mod.Name)

	for _, decl := range mod.Decls {
		if err := declareDecl(b, decl); err != nil {
			return nil, err
		}
	}
	for _, decl := range mod.Decls {
		if err := convertTypeDecl(b, decl); err != nil {
			return nil, err
		}
	}
	for _, decl := range mod.Decls {
		if err := convertCallableDecl(b, decl); err != nil {
			return nil, err
		}
	}

	return b.Finalize()
}

func declareDecl(b *ir.Builder, decl Decl) error {
	switch d := decl.(type) {
	case *EnumDecl:
		if hasAttr(d.Attrs, attrError) {
			return b.DeclareError(d.Name)
		}
		return b.DeclareEnum(d.Name)
	case *StructDecl:
		if hasAttr(d.Attrs, attrRecord) {
			return b.DeclareRecord(d.Name)
		}
		return b.DeclareObject(d.Name)
	case *ImplDecl, *FnDecl:
		return nil
	default:
		return convertErrorf(ErrUnknownType, "", "unsupported declaration kind %T", decl)
	}
}

func convertTypeDecl(b *ir.Builder, decl Decl) error {
	switch d := decl.(type) {
	case *EnumDecl:
		attrs, err := parseEnumAttrs("enum "+d.Name, d.Attrs)
		if err != nil {
			return err
		}
		if attrs.Error {
			e, err := convertErrorEnum(d)
			if err != nil {
				return err
			}
			return b.AddError(e)
		}
		e, err := convertEnum(b, d)
		if err != nil {
			return err
		}
		return b.AddEnum(e)
	case *StructDecl:
		attrs, err := parseStructAttrs("struct "+d.Name, d.Attrs)
		if err != nil {
			return err
		}
		if attrs.Record {
			r, err := convertRecord(b, d)
			if err != nil {
				return err
			}
			return b.AddRecord(r)
		}
		// object structs contribute an empty shell here; impl blocks
		// fill in the callables in the next pass
		return b.AddObject(&ir.Object{Name: d.Name, Threadsafe: attrs.Threadsafe, Docs: d.Docs})
	default:
		return nil
	}
}

func convertCallableDecl(b *ir.Builder, decl Decl) error {
	switch d := decl.(type) {
	case *ImplDecl:
		return convertImpl(b, d)
	case *FnDecl:
		fn, err := convertFunction(b, d)
		if err != nil {
			return err
		}
		return b.AddFunction(fn)
	default:
		return nil
	}
}

// convertEnum converts a plain or data-carrying enum. Duplicate variant
// names are preserved as declared.
func convertEnum(b *ir.Builder, d *EnumDecl) (*ir.Enum, error) {
	construct := "enum " + d.Name
	variants := make([]ir.Variant, 0, len(d.Variants))
	for i := range d.Variants {
		vd := &d.Variants[i]
		if vd.Discriminant != nil {
			return nil, convertErrorf(ErrDiscriminant, construct+"."+vd.Name,
				"explicit discriminants are not supported")
		}
		v := ir.Variant{Name: vd.Name}
		for j := range vd.Fields {
			f, err := convertField(b, fmt.Sprintf("%s.%s", construct, vd.Name), &vd.Fields[j], false)
			if err != nil {
				return nil, err
			}
			v.Fields = append(v.Fields, f)
		}
		variants = append(variants, v)
	}
	return &ir.Enum{Name: d.Name, Variants: variants, Docs: d.Docs}, nil
}

// convertErrorEnum converts an error-tagged enum. Only fieldless
// variants can be expressed as error values.
func convertErrorEnum(d *EnumDecl) (*ir.ErrorDef, error) {
	construct := "error enum " + d.Name
	values := make([]string, 0, len(d.Variants))
	for i := range d.Variants {
		vd := &d.Variants[i]
		if vd.Discriminant != nil {
			return nil, convertErrorf(ErrDiscriminant, construct+"."+vd.Name,
				"explicit discriminants are not supported")
		}
		if len(vd.Fields) > 0 {
			return nil, convertErrorf(ErrErrorFields, construct+"."+vd.Name,
				"error variants cannot carry fields")
		}
		values = append(values, vd.Name)
	}
	return &ir.ErrorDef{Name: d.Name, Values: values, Docs: d.Docs}, nil
}

// convertRecord converts a record-tagged struct. Every field must be
// public and named.
func convertRecord(b *ir.Builder, d *StructDecl) (*ir.Record, error) {
	construct := "record " + d.Name
	rec := &ir.Record{Name: d.Name, Docs: d.Docs}
	for i := range d.Fields {
		f, err := convertField(b, construct, &d.Fields[i], true)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

// convertField lowers one field declaration. Record fields must be
// public and are always required: a native struct field is
// unconditionally present. Variant fields carry no required flag,
// matching the definition-file front end.
func convertField(b *ir.Builder, construct string, fd *FieldDecl, record bool) (ir.Field, error) {
	var f ir.Field
	if fd.Name == "" {
		return f, convertErrorf(ErrUnnamedField, construct, "unnamed fields are not supported")
	}
	if record && !fd.Public {
		return f, convertErrorf(ErrPrivateField, construct+"."+fd.Name,
			"record fields must be public")
	}
	t, err := resolveTypeExpr(b, construct+"."+fd.Name, &fd.Type)
	if err != nil {
		return f, err
	}
	if t.ContainsObject() {
		return f, convertErrorf(ErrObjectInFieldData, construct+"."+fd.Name,
			"objects cannot be used in field data")
	}
	return ir.Field{Name: fd.Name, Type: t, Required: record}, nil
}

// convertImpl attaches an impl block's callables to its object. The
// constructor name declares the constructor; a receiver distinguishes
// instance methods from static ones.
func convertImpl(b *ir.Builder, d *ImplDecl) error {
	construct := "impl " + d.TypeName
	if err := parseImplAttrs(construct, d.Attrs); err != nil {
		return err
	}
	err := b.MutateObject(d.TypeName, func(obj *ir.Object) error {
		for i := range d.Methods {
			md := &d.Methods[i]
			if md.Name == ir.DefaultConstructorName {
				cons, err := convertConstructor(b, construct, d.TypeName, md)
				if err != nil {
					return err
				}
				obj.AppendConstructor(cons)
				continue
			}
			meth, err := convertMethod(b, construct, md)
			if err != nil {
				return err
			}
			obj.AppendMethod(meth)
		}
		return nil
	})
	var cerr *ConvertError
	if err != nil && !errors.As(err, &cerr) {
		return convertErrorf(ErrImplTarget, construct, "%v", err)
	}
	return err
}

func convertConstructor(b *ir.Builder, construct, typeName string, md *MethodDecl) (ir.Constructor, error) {
	var cons ir.Constructor
	member := fmt.Sprintf("%s.%s", construct, md.Name)
	if md.HasReceiver {
		return cons, convertErrorf(ErrReceiverOnConstructor, member,
			"constructors cannot take a receiver")
	}
	// a constructor may spell out its own type as the return, but
	// nothing else; the handle return is always implied
	if md.ReturnType != nil && (len(md.ReturnType.Args) > 0 || md.ReturnType.Name != typeName) {
		return cons, convertErrorf(ErrConstructorReturn, member,
			"constructors return their own object implicitly")
	}
	attrs, err := parseCallableAttrs(member, md.Attrs)
	if err != nil {
		return cons, err
	}
	args, err := convertParams(b, member, md.Arguments)
	if err != nil {
		return cons, err
	}
	return ir.Constructor{
		Name:      ir.DefaultConstructorName,
		Arguments: args,
		Throws:    attrs.Throws,
		Docs:      md.Docs,
	}, nil
}

func convertMethod(b *ir.Builder, construct string, md *MethodDecl) (ir.Method, error) {
	var meth ir.Method
	member := fmt.Sprintf("%s.%s", construct, md.Name)
	attrs, err := parseCallableAttrs(member, md.Attrs)
	if err != nil {
		return meth, err
	}
	ret, err := resolveReturn(b, member, md.ReturnType)
	if err != nil {
		return meth, err
	}
	args, err := convertParams(b, member, md.Arguments)
	if err != nil {
		return meth, err
	}
	return ir.Method{
		Name:       md.Name,
		ReturnType: ret,
		Arguments:  args,
		Static:     !md.HasReceiver,
		Throws:     attrs.Throws,
		Docs:       md.Docs,
	}, nil
}

func convertFunction(b *ir.Builder, d *FnDecl) (*ir.Function, error) {
	construct := "fn " + d.Name
	attrs, err := parseCallableAttrs(construct, d.Attrs)
	if err != nil {
		return nil, err
	}
	ret, err := resolveReturn(b, construct, d.ReturnType)
	if err != nil {
		return nil, err
	}
	args, err := convertParams(b, construct, d.Arguments)
	if err != nil {
		return nil, err
	}
	return &ir.Function{
		Name:       d.Name,
		Arguments:  args,
		ReturnType: ret,
		Throws:     attrs.Throws,
		Docs:       d.Docs,
	}, nil
}

func convertParams(b *ir.Builder, construct string, params []ParamDecl) ([]ir.Argument, error) {
	out := make([]ir.Argument, 0, len(params))
	for i := range params {
		p := &params[i]
		t, err := resolveTypeExpr(b, construct, &p.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, ir.Argument{Name: p.Name, Type: t, ByRef: p.ByRef})
	}
	return out, nil
}

func resolveReturn(b *ir.Builder, construct string, te *TypeExpr) (*ir.Type, error) {
	if te == nil {
		return nil, nil
	}
	t, err := resolveTypeExpr(b, construct, te)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Generic type names recognized by this front end.
const (
	genericOption = "option"
	genericList   = "list"
)

// resolveTypeExpr resolves a type expression through the universe.
// option<T> maps to Optional and list<T> to Sequence; any other generic
// form is rejected.
func resolveTypeExpr(b *ir.Builder, construct string, te *TypeExpr) (ir.Type, error) {
	var t ir.Type
	if len(te.Args) == 0 {
		var err error
		t, err = b.Types().ResolveName(te.Name)
		if err != nil {
			return t, convertErrorf(ErrUnknownType, construct, "%v", err)
		}
		return t, nil
	}
	if len(te.Args) != 1 {
		return t, convertErrorf(ErrGenericType, construct,
			"%s takes exactly one type argument", te.Name)
	}
	elem, err := resolveTypeExpr(b, construct, &te.Args[0])
	if err != nil {
		return t, err
	}
	switch te.Name {
	case genericOption:
		return b.Types().Register(ir.OptionalType(elem)), nil
	case genericList:
		return b.Types().Register(ir.SequenceType(elem)), nil
	default:
		return t, convertErrorf(ErrGenericType, construct,
			"unsupported generic type %q", te.Name)
	}
}
