package webidl

import (
	"fmt"

	"github.com/roach88/ffikit/internal/ir"
)

// Compile converts a parsed document into a finalized ComponentInterface.
//
// Conversion is two-pass over the definitions: pass 1 declares every
// top-level name (so member conversion can resolve forward references),
// pass 2 converts definition bodies. Derivation then runs once in
// Finalize.
func Compile(doc *Document) (*ir.ComponentInterface, error) {
	ns, err := findNamespace(doc)
	if err != nil {
		return nil, err
	}
	b := ir.NewBuilder(ns.Name)

	for _, def := range doc.Definitions {
		if err := declareDefinition(b, def); err != nil {
			return nil, err
		}
	}
	for _, def := range doc.Definitions {
		if err := compileDefinition(b, def); err != nil {
			return nil, err
		}
	}

	return b.Finalize()
}

func findNamespace(doc *Document) (*Namespace, error) {
	var ns *Namespace
	for _, def := range doc.Definitions {
		n, ok := def.(*Namespace)
		if !ok {
			continue
		}
		if ns != nil {
			return nil, compileErrorf(ErrMultipleNamespace, "namespace "+n.Name,
				"a component declares exactly one namespace")
		}
		ns = n
	}
	if ns == nil {
		return nil, compileErrorf(ErrNoNamespace, "", "a component declares exactly one namespace")
	}
	return ns, nil
}

func declareDefinition(b *ir.Builder, def Definition) error {
	switch d := def.(type) {
	case *Namespace:
		return nil
	case *EnumDef:
		if hasAttribute(d.Attributes, attrError) {
			return b.DeclareError(d.Name)
		}
		return b.DeclareEnum(d.Name)
	case *InterfaceDef:
		if hasAttribute(d.Attributes, attrEnum) {
			return b.DeclareEnum(d.Name)
		}
		return b.DeclareObject(d.Name)
	case *DictionaryDef:
		return b.DeclareRecord(d.Name)
	default:
		return compileErrorf(ErrUnsupportedMember, "", "unsupported definition kind %T", def)
	}
}

func compileDefinition(b *ir.Builder, def Definition) error {
	switch d := def.(type) {
	case *Namespace:
		for i := range d.Members {
			fn, err := compileFunction(b, &d.Members[i])
			if err != nil {
				return err
			}
			if err := b.AddFunction(fn); err != nil {
				return err
			}
		}
		return nil
	case *EnumDef:
		attrs, err := parseEnumAttributes("enum "+d.Name, d.Attributes)
		if err != nil {
			return err
		}
		if attrs.Error {
			return b.AddError(compileErrorEnum(d))
		}
		return b.AddEnum(compileEnum(d))
	case *InterfaceDef:
		if hasAttribute(d.Attributes, attrEnum) {
			e, err := compileEnumInterface(b, d)
			if err != nil {
				return err
			}
			return b.AddEnum(e)
		}
		o, err := compileInterface(b, d)
		if err != nil {
			return err
		}
		return b.AddObject(o)
	case *DictionaryDef:
		r, err := compileDictionary(b, d)
		if err != nil {
			return err
		}
		return b.AddRecord(r)
	default:
		return compileErrorf(ErrUnsupportedMember, "", "unsupported definition kind %T", def)
	}
}

// compileEnum converts the plain string-list enum form. Duplicate
// variant names are deliberately preserved as declared.
func compileEnum(d *EnumDef) *ir.Enum {
	variants := make([]ir.Variant, 0, len(d.Values))
	for _, v := range d.Values {
		variants = append(variants, ir.Variant{Name: v})
	}
	return &ir.Enum{Name: d.Name, Variants: variants}
}

// compileErrorEnum converts an [Error]-attributed enum into an error
// definition: the variant list becomes the value list.
func compileErrorEnum(d *EnumDef) *ir.ErrorDef {
	return &ir.ErrorDef{Name: d.Name, Values: append([]string(nil), d.Values...)}
}

// compileEnumInterface converts the data-carrying [Enum] interface form.
//
// The member syntax is `Name(type arg, ...);`, which parses as an
// anonymous operation where `Name` is the return type token. That token
// is reinterpreted as the variant's name and the argument list as the
// variant's field list; it is not an actual return type.
func compileEnumInterface(b *ir.Builder, d *InterfaceDef) (*ir.Enum, error) {
	construct := "enum interface " + d.Name
	if d.Inheritance != "" {
		return nil, compileErrorf(ErrInheritance, construct, "interface inheritance is not supported")
	}
	for _, a := range d.Attributes {
		if a.Name != attrEnum {
			return nil, compileErrorf(ErrIllegalAttribute, construct,
				"[%s] cannot be combined with [Enum]", a.Name)
		}
	}
	variants := make([]ir.Variant, 0, len(d.Members))
	for _, member := range d.Members {
		op, ok := member.(*Operation)
		if !ok {
			return nil, compileErrorf(ErrUnsupportedMember, construct,
				"only operation members are supported in an enum interface")
		}
		v, err := compileVariant(b, construct, op)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return &ir.Enum{Name: d.Name, Variants: variants}, nil
}

func compileVariant(b *ir.Builder, construct string, op *Operation) (ir.Variant, error) {
	var v ir.Variant
	if op.Special != "" {
		return v, compileErrorf(ErrSpecialOperation, construct, "special operations are not supported")
	}
	if op.Stringifier {
		return v, compileErrorf(ErrStringifier, construct, "stringifiers are not supported")
	}
	if op.Name != "" {
		return v, compileErrorf(ErrEnumMemberShape, construct,
			"enum interface members must not have a method name")
	}
	if op.ReturnType == nil || op.ReturnType.Elem != nil || op.ReturnType.Nullable {
		return v, compileErrorf(ErrEnumMemberShape, construct,
			"enum interface members must have plain identifiers as names")
	}
	v.Name = op.ReturnType.Name

	for i := range op.Arguments {
		f, err := compileVariantField(b, construct+"."+v.Name, &op.Arguments[i])
		if err != nil {
			return v, err
		}
		v.Fields = append(v.Fields, f)
	}
	return v, nil
}

func compileVariantField(b *ir.Builder, construct string, arg *Argument) (ir.Field, error) {
	var f ir.Field
	if arg.Variadic {
		return f, compileErrorf(ErrVariadicArgument, construct, "variadic arguments are not supported")
	}
	if arg.Default != nil {
		return f, compileErrorf(ErrVariantFieldDefault, construct,
			"variant fields must not have default values")
	}
	if len(arg.Attributes) > 0 {
		return f, compileErrorf(ErrVariantFieldAttrs, construct,
			"variant fields must not have attributes")
	}
	t, err := resolveTypeExpr(b, construct, &arg.Type)
	if err != nil {
		return f, err
	}
	if t.ContainsObject() {
		return f, compileErrorf(ErrObjectInFieldData, construct,
			"objects cannot be used in enum variant data")
	}
	return ir.Field{Name: arg.Name, Type: t}, nil
}

// compileInterface converts a plain interface into an object. Members
// may only be constructors and operations; a missing constructor is
// synthesized at finalize time, not here.
func compileInterface(b *ir.Builder, d *InterfaceDef) (*ir.Object, error) {
	construct := "interface " + d.Name
	if d.Inheritance != "" {
		return nil, compileErrorf(ErrInheritance, construct, "interface inheritance is not supported")
	}
	attrs, err := parseInterfaceAttributes(construct, d.Attributes)
	if err != nil {
		return nil, err
	}

	obj := &ir.Object{Name: d.Name, Threadsafe: attrs.Threadsafe}
	for _, member := range d.Members {
		switch m := member.(type) {
		case *ConstructorMember:
			cons, err := compileConstructor(b, construct, m)
			if err != nil {
				return nil, err
			}
			obj.AppendConstructor(cons)
		case *Operation:
			meth, err := compileMethod(b, construct, m)
			if err != nil {
				return nil, err
			}
			obj.AppendMethod(meth)
		default:
			return nil, compileErrorf(ErrUnsupportedMember, construct,
				"unsupported interface member kind %T", member)
		}
	}
	return obj, nil
}

func compileConstructor(b *ir.Builder, construct string, m *ConstructorMember) (ir.Constructor, error) {
	var cons ir.Constructor
	attrs, err := parseMemberAttributes(construct+".constructor", m.Attributes)
	if err != nil {
		return cons, err
	}
	args, err := compileArguments(b, construct+".constructor", m.Arguments)
	if err != nil {
		return cons, err
	}
	return ir.Constructor{
		Name:      ir.DefaultConstructorName,
		Arguments: args,
		Throws:    attrs.Throws,
	}, nil
}

func compileMethod(b *ir.Builder, construct string, op *Operation) (ir.Method, error) {
	var meth ir.Method
	if op.Special != "" {
		return meth, compileErrorf(ErrSpecialOperation, construct, "special operations are not supported")
	}
	if op.Stringifier {
		return meth, compileErrorf(ErrStringifier, construct, "stringifiers are not supported")
	}
	if op.Name == "" {
		return meth, compileErrorf(ErrAnonymousMethod, construct, "anonymous methods are not supported")
	}
	if op.Name == ir.DefaultConstructorName {
		return meth, compileErrorf(ErrReservedName, construct,
			"the method name %q is reserved for the default constructor", ir.DefaultConstructorName)
	}

	member := fmt.Sprintf("%s.%s", construct, op.Name)
	attrs, err := parseMemberAttributes(member, op.Attributes)
	if err != nil {
		return meth, err
	}
	ret, err := resolveReturnType(b, member, op.ReturnType)
	if err != nil {
		return meth, err
	}
	args, err := compileArguments(b, member, op.Arguments)
	if err != nil {
		return meth, err
	}

	return ir.Method{
		Name: op.Name,
		// the owning object's name is not known here; it is filled in
		// when the method is appended to its object
		ReturnType: ret,
		Arguments:  args,
		Static:     op.Static,
		Throws:     attrs.Throws,
	}, nil
}

// compileDictionary converts a dictionary into a record.
func compileDictionary(b *ir.Builder, d *DictionaryDef) (*ir.Record, error) {
	construct := "dictionary " + d.Name
	if d.Inheritance != "" {
		return nil, compileErrorf(ErrInheritance, construct, "dictionary inheritance is not supported")
	}
	rec := &ir.Record{Name: d.Name}
	for i := range d.Members {
		member := &d.Members[i]
		t, err := resolveTypeExpr(b, construct+"."+member.Name, &member.Type)
		if err != nil {
			return nil, err
		}
		if t.ContainsObject() {
			return nil, compileErrorf(ErrObjectInFieldData, construct+"."+member.Name,
				"objects cannot be used in record field data")
		}
		def, err := compileLiteral(construct+"."+member.Name, member.Default)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, ir.Field{
			Name:     member.Name,
			Type:     t,
			Required: member.Required,
			Default:  def,
		})
	}
	return rec, nil
}

// compileFunction converts a namespace operation into a free function.
func compileFunction(b *ir.Builder, op *Operation) (*ir.Function, error) {
	if op.Special != "" {
		return nil, compileErrorf(ErrSpecialOperation, "namespace", "special operations are not supported")
	}
	if op.Stringifier {
		return nil, compileErrorf(ErrStringifier, "namespace", "stringifiers are not supported")
	}
	if op.Name == "" {
		return nil, compileErrorf(ErrAnonymousMethod, "namespace", "anonymous functions are not supported")
	}

	construct := "function " + op.Name
	attrs, err := parseMemberAttributes(construct, op.Attributes)
	if err != nil {
		return nil, err
	}
	ret, err := resolveReturnType(b, construct, op.ReturnType)
	if err != nil {
		return nil, err
	}
	args, err := compileArguments(b, construct, op.Arguments)
	if err != nil {
		return nil, err
	}

	return &ir.Function{
		Name:       op.Name,
		Arguments:  args,
		ReturnType: ret,
		Throws:     attrs.Throws,
	}, nil
}

func compileArguments(b *ir.Builder, construct string, args []Argument) ([]ir.Argument, error) {
	out := make([]ir.Argument, 0, len(args))
	for i := range args {
		arg := &args[i]
		if arg.Variadic {
			return nil, compileErrorf(ErrVariadicArgument, construct, "variadic arguments are not supported")
		}
		attrs, err := parseArgumentAttributes(construct+"."+arg.Name, arg.Attributes)
		if err != nil {
			return nil, err
		}
		t, err := resolveTypeExpr(b, construct, &arg.Type)
		if err != nil {
			return nil, err
		}
		def, err := compileLiteral(construct, arg.Default)
		if err != nil {
			return nil, err
		}
		out = append(out, ir.Argument{
			Name:     arg.Name,
			Type:     t,
			ByRef:    attrs.ByRef,
			Optional: arg.Optional,
			Default:  def,
		})
	}
	return out, nil
}

// resolveReturnType resolves an operation return. nil stays nil (void).
func resolveReturnType(b *ir.Builder, construct string, te *TypeExpr) (*ir.Type, error) {
	if te == nil {
		return nil, nil
	}
	t, err := resolveTypeExpr(b, construct, te)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// resolveTypeExpr resolves a type expression through the universe.
// sequence<T> registers the sequence around its resolved element; a
// trailing `?` wraps the result in Optional.
func resolveTypeExpr(b *ir.Builder, construct string, te *TypeExpr) (ir.Type, error) {
	var t ir.Type
	if te.Elem != nil {
		elem, err := resolveTypeExpr(b, construct, te.Elem)
		if err != nil {
			return t, err
		}
		t = b.Types().Register(ir.SequenceType(elem))
	} else {
		var err error
		t, err = b.Types().ResolveName(te.Name)
		if err != nil {
			return t, compileErrorf(ErrUnknownType, construct, "%v", err)
		}
	}
	if te.Nullable {
		t = b.Types().Register(ir.OptionalType(t))
	}
	return t, nil
}

func compileLiteral(construct string, lit *Literal) (ir.IRValue, error) {
	if lit == nil {
		return nil, nil
	}
	switch lit.Kind {
	case LiteralString:
		return ir.IRString(lit.String), nil
	case LiteralInt:
		return ir.IRInt(lit.Int), nil
	case LiteralBool:
		return ir.IRBool(lit.Bool), nil
	default:
		return nil, compileErrorf(ErrUnsupportedMember, construct,
			"unsupported default literal kind %d", int(lit.Kind))
	}
}
