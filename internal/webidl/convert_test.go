package webidl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ffikit/internal/ir"
)

func typeExpr(name string) TypeExpr {
	return TypeExpr{Name: name}
}

func docWith(defs ...Definition) *Document {
	all := append([]Definition{&Namespace{Name: "demo"}}, defs...)
	return &Document{Definitions: all}
}

func TestCompileRequiresExactlyOneNamespace(t *testing.T) {
	_, err := Compile(&Document{})
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrNoNamespace, cerr.Code)

	_, err = Compile(&Document{Definitions: []Definition{
		&Namespace{Name: "a"},
		&Namespace{Name: "b"},
	}})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrMultipleNamespace, cerr.Code)
}

func TestCompilePlainEnum(t *testing.T) {
	ci, err := Compile(docWith(&EnumDef{
		Name:   "TestEnum",
		Values: []string{"one", "two"},
	}))
	require.NoError(t, err)

	enums := ci.EnumDefinitions()
	require.Len(t, enums, 1)
	e := enums[0]
	assert.Equal(t, "TestEnum", e.Name)
	require.Len(t, e.Variants, 2)
	assert.Equal(t, "one", e.Variants[0].Name)
	assert.Equal(t, "two", e.Variants[1].Name)
	assert.False(t, e.HasAssociatedData())

	et, ok := ci.NamedType("TestEnum")
	require.True(t, ok)
	assert.Equal(t, ir.FFIByteBuffer, ir.LowerType(et))
}

func TestCompileEnumDuplicateVariantsPreserved(t *testing.T) {
	ci, err := Compile(docWith(&EnumDef{
		Name:   "Dupes",
		Values: []string{"a", "a", "b"},
	}))
	require.NoError(t, err)
	e, ok := ci.GetEnumDefinition("Dupes")
	require.True(t, ok)
	require.Len(t, e.Variants, 3)
	assert.Equal(t, "a", e.Variants[0].Name)
	assert.Equal(t, "a", e.Variants[1].Name)
}

func TestCompileEnumInterface(t *testing.T) {
	ci, err := Compile(docWith(&InterfaceDef{
		Name:       "TestEnumWithData",
		Attributes: []ExtendedAttribute{{Name: "Enum"}},
		Members: []InterfaceMember{
			&Operation{ReturnType: &TypeExpr{Name: "Zero"}},
			&Operation{
				ReturnType: &TypeExpr{Name: "One"},
				Arguments:  []Argument{{Name: "first", Type: typeExpr("u32")}},
			},
			&Operation{
				ReturnType: &TypeExpr{Name: "Two"},
				Arguments: []Argument{
					{Name: "first", Type: typeExpr("u32")},
					{Name: "second", Type: typeExpr("string")},
				},
			},
		},
	}))
	require.NoError(t, err)

	e, ok := ci.GetEnumDefinition("TestEnumWithData")
	require.True(t, ok)
	require.Len(t, e.Variants, 3)
	assert.True(t, e.HasAssociatedData())

	assert.Equal(t, "Zero", e.Variants[0].Name)
	assert.Empty(t, e.Variants[0].Fields)
	assert.Equal(t, "One", e.Variants[1].Name)
	require.Len(t, e.Variants[1].Fields, 1)
	assert.Equal(t, "first", e.Variants[1].Fields[0].Name)
	assert.Equal(t, ir.TypeUInt32, e.Variants[1].Fields[0].Type.Kind)
	assert.Equal(t, "Two", e.Variants[2].Name)
	require.Len(t, e.Variants[2].Fields, 2)
	assert.Equal(t, "second", e.Variants[2].Fields[1].Name)

	// data-carrying enums still lower by serialization
	et, ok := ci.NamedType("TestEnumWithData")
	require.True(t, ok)
	assert.Equal(t, ir.FFIByteBuffer, ir.LowerType(et))
}

func TestCompileEnumInterfaceRejectsNamedMembers(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:       "Bad",
		Attributes: []ExtendedAttribute{{Name: "Enum"}},
		Members: []InterfaceMember{
			&Operation{Name: "named", ReturnType: &TypeExpr{Name: "Zero"}},
		},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrEnumMemberShape, cerr.Code)
}

func TestCompileEnumInterfaceRejectsCompoundVariantName(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:       "Bad",
		Attributes: []ExtendedAttribute{{Name: "Enum"}},
		Members: []InterfaceMember{
			&Operation{ReturnType: &TypeExpr{Name: "sequence", Elem: &TypeExpr{Name: "u32"}}},
		},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrEnumMemberShape, cerr.Code)
}

func TestCompileEnumInterfaceRejectsFieldDefaults(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:       "Bad",
		Attributes: []ExtendedAttribute{{Name: "Enum"}},
		Members: []InterfaceMember{
			&Operation{
				ReturnType: &TypeExpr{Name: "One"},
				Arguments: []Argument{{
					Name:    "first",
					Type:    typeExpr("u32"),
					Default: &Literal{Kind: LiteralInt, Int: 4},
				}},
			},
		},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrVariantFieldDefault, cerr.Code)
}

func TestCompileEnumInterfaceRejectsObjectFields(t *testing.T) {
	_, err := Compile(docWith(
		&InterfaceDef{Name: "Obj"},
		&InterfaceDef{
			Name:       "Bad",
			Attributes: []ExtendedAttribute{{Name: "Enum"}},
			Members: []InterfaceMember{
				&Operation{
					ReturnType: &TypeExpr{Name: "One"},
					Arguments:  []Argument{{Name: "o", Type: typeExpr("Obj")}},
				},
			},
		},
	))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrObjectInFieldData, cerr.Code)
}

func TestCompileErrorEnum(t *testing.T) {
	ci, err := Compile(docWith(&EnumDef{
		Name:       "TestError",
		Attributes: []ExtendedAttribute{{Name: "Error"}},
		Values:     []string{"NotFound", "Busted"},
	}))
	require.NoError(t, err)

	errs := ci.ErrorDefinitions()
	require.Len(t, errs, 1)
	assert.Equal(t, "TestError", errs[0].Name)
	assert.Equal(t, []string{"NotFound", "Busted"}, errs[0].Values)
	assert.Empty(t, ci.EnumDefinitions())
}

func TestCompileInterface(t *testing.T) {
	ci, err := Compile(docWith(&InterfaceDef{
		Name: "TestObj",
		Members: []InterfaceMember{
			&Operation{Name: "hello", ReturnType: &TypeExpr{Name: "string"}},
			&Operation{Name: "version", Static: true, ReturnType: &TypeExpr{Name: "u32"}},
		},
	}))
	require.NoError(t, err)

	obj, ok := ci.GetObjectDefinition("TestObj")
	require.True(t, ok)

	// no explicit constructor, so the default one is synthesized
	require.Len(t, obj.Constructors, 1)
	assert.Equal(t, ir.DefaultConstructorName, obj.Constructors[0].Name)
	assert.Empty(t, obj.Constructors[0].Arguments)
	assert.Equal(t, ir.FFIHandle, *obj.Constructors[0].FFIFunc.ReturnType)

	require.Len(t, obj.Methods, 2)
	hello := obj.Methods[0]
	assert.Equal(t, "TestObj", hello.ObjectName)
	assert.False(t, hello.Static)
	require.Len(t, hello.FFIFunc.Arguments, 1)
	assert.Equal(t, ir.FFIHandle, hello.FFIFunc.Arguments[0].Type)

	version := obj.Methods[1]
	assert.True(t, version.Static)
	assert.Empty(t, version.FFIFunc.Arguments)

	assert.Equal(t, "ffi_demo_TestObj_object_free", obj.FFIFuncFree.Name)
}

func TestCompileInterfaceWithExplicitConstructor(t *testing.T) {
	ci, err := Compile(docWith(&InterfaceDef{
		Name: "Counter",
		Members: []InterfaceMember{
			&ConstructorMember{Arguments: []Argument{{Name: "start", Type: typeExpr("u64")}}},
			&Operation{Name: "increment"},
		},
	}))
	require.NoError(t, err)

	obj, ok := ci.GetObjectDefinition("Counter")
	require.True(t, ok)
	require.Len(t, obj.Constructors, 1)
	cons := obj.Constructors[0]
	assert.Equal(t, ir.DefaultConstructorName, cons.Name)
	require.Len(t, cons.Arguments, 1)
	assert.Equal(t, ir.FFIHandle, *cons.FFIFunc.ReturnType)

	// void instance method: handle arg only, no FFI return
	inc := obj.Methods[0]
	require.Len(t, inc.FFIFunc.Arguments, 1)
	assert.Nil(t, inc.FFIFunc.ReturnType)
}

func TestCompileInterfaceRejectsInheritance(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{Name: "Sub", Inheritance: "Base"}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrInheritance, cerr.Code)
}

func TestCompileInterfaceRejectsReservedMethodName(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:    "Bad",
		Members: []InterfaceMember{&Operation{Name: "new"}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrReservedName, cerr.Code)
}

func TestCompileInterfaceRejectsSpecialOperations(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:    "Bad",
		Members: []InterfaceMember{&Operation{Name: "get", Special: "getter"}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrSpecialOperation, cerr.Code)

	_, err = Compile(docWith(&InterfaceDef{
		Name:    "Bad",
		Members: []InterfaceMember{&Operation{Name: "str", Stringifier: true}},
	}))
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrStringifier, cerr.Code)
}

func TestCompileInterfaceRejectsAnonymousMethod(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:    "Bad",
		Members: []InterfaceMember{&Operation{ReturnType: &TypeExpr{Name: "u32"}}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrAnonymousMethod, cerr.Code)
}

func TestCompileThreadsafeInterface(t *testing.T) {
	ci, err := Compile(docWith(&InterfaceDef{
		Name:       "Safe",
		Attributes: []ExtendedAttribute{{Name: "Threadsafe"}},
	}))
	require.NoError(t, err)
	obj, ok := ci.GetObjectDefinition("Safe")
	require.True(t, ok)
	assert.True(t, obj.Threadsafe)
}

func TestCompileInterfaceRejectsThrowsAttribute(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name:       "Bad",
		Attributes: []ExtendedAttribute{{Name: "Throws", Value: "TestError"}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrIllegalAttribute, cerr.Code)
}

func TestCompileMethodThrows(t *testing.T) {
	ci, err := Compile(docWith(
		&EnumDef{
			Name:       "TestError",
			Attributes: []ExtendedAttribute{{Name: "Error"}},
			Values:     []string{"Oops"},
		},
		&InterfaceDef{
			Name: "Obj",
			Members: []InterfaceMember{
				&Operation{
					Name:       "fallible",
					Attributes: []ExtendedAttribute{{Name: "Throws", Value: "TestError"}},
				},
			},
		},
	))
	require.NoError(t, err)
	obj, ok := ci.GetObjectDefinition("Obj")
	require.True(t, ok)
	assert.Equal(t, "TestError", obj.Methods[0].Throws)
}

func TestCompileRejectsUndeclaredThrowsTarget(t *testing.T) {
	_, err := Compile(docWith(&InterfaceDef{
		Name: "Obj",
		Members: []InterfaceMember{
			&Operation{
				Name:       "fallible",
				Attributes: []ExtendedAttribute{{Name: "Throws", Value: "NopeError"}},
			},
		},
	}))
	require.Error(t, err)
}

func TestCompileDictionary(t *testing.T) {
	ci, err := Compile(docWith(&DictionaryDef{
		Name: "Options",
		Members: []DictionaryMember{
			{Name: "name", Type: typeExpr("string"), Required: true},
			{Name: "retries", Type: typeExpr("u8"), Default: &Literal{Kind: LiteralInt, Int: 3}},
			{Name: "tags", Type: TypeExpr{Name: "sequence", Elem: &TypeExpr{Name: "string"}}},
		},
	}))
	require.NoError(t, err)

	rec, ok := ci.GetRecordDefinition("Options")
	require.True(t, ok)
	require.Len(t, rec.Fields, 3)
	assert.True(t, rec.Fields[0].Required)
	assert.Equal(t, ir.IRInt(3), rec.Fields[1].Default)
	assert.Equal(t, "Sequencestring", rec.Fields[2].Type.CanonicalName())
}

func TestCompileDictionaryRejectsObjectFields(t *testing.T) {
	_, err := Compile(docWith(
		&InterfaceDef{Name: "Obj"},
		&DictionaryDef{
			Name:    "Bad",
			Members: []DictionaryMember{{Name: "o", Type: typeExpr("Obj")}},
		},
	))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrObjectInFieldData, cerr.Code)
}

func TestCompileNamespaceFunctions(t *testing.T) {
	ci, err := Compile(&Document{Definitions: []Definition{
		&Namespace{
			Name: "demo",
			Members: []Operation{
				{
					Name:       "add",
					ReturnType: &TypeExpr{Name: "u64"},
					Arguments: []Argument{
						{Name: "a", Type: typeExpr("u64")},
						{Name: "b", Type: typeExpr("u64")},
					},
				},
				{Name: "noop"},
			},
		},
	}})
	require.NoError(t, err)

	fns := ci.FunctionDefinitions()
	require.Len(t, fns, 2)
	add := fns[0]
	assert.Equal(t, "add", add.Name)
	require.NotNil(t, add.FFIFunc.ReturnType)
	assert.Equal(t, ir.FFIUInt64, *add.FFIFunc.ReturnType)
	require.Len(t, add.FFIFunc.Arguments, 2)

	noop := fns[1]
	assert.Nil(t, noop.FFIFunc.ReturnType)
	assert.Empty(t, noop.FFIFunc.Arguments)
}

func TestCompileRejectsVariadicArguments(t *testing.T) {
	_, err := Compile(&Document{Definitions: []Definition{
		&Namespace{
			Name: "demo",
			Members: []Operation{
				{
					Name:      "bad",
					Arguments: []Argument{{Name: "rest", Type: typeExpr("u32"), Variadic: true}},
				},
			},
		},
	}})
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrVariadicArgument, cerr.Code)
}

func TestCompileRejectsUnknownType(t *testing.T) {
	_, err := Compile(docWith(&DictionaryDef{
		Name:    "Bad",
		Members: []DictionaryMember{{Name: "x", Type: typeExpr("Mystery")}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnknownType, cerr.Code)
}

func TestCompileForwardReference(t *testing.T) {
	// the dictionary refers to an enum declared after it in the document
	ci, err := Compile(docWith(
		&DictionaryDef{
			Name:    "Holder",
			Members: []DictionaryMember{{Name: "kind", Type: typeExpr("Kind")}},
		},
		&EnumDef{Name: "Kind", Values: []string{"a"}},
	))
	require.NoError(t, err)
	rec, ok := ci.GetRecordDefinition("Holder")
	require.True(t, ok)
	assert.Equal(t, "EnumKind", rec.Fields[0].Type.CanonicalName())
}

func TestCompileNullableAndSequenceTypes(t *testing.T) {
	ci, err := Compile(&Document{Definitions: []Definition{
		&Namespace{
			Name: "demo",
			Members: []Operation{
				{
					Name:       "lookup",
					ReturnType: &TypeExpr{Name: "string", Nullable: true},
					Arguments: []Argument{
						{Name: "keys", Type: TypeExpr{Name: "sequence", Elem: &TypeExpr{Name: "u32"}}},
					},
				},
			},
		},
	}})
	require.NoError(t, err)

	fn := ci.FunctionDefinitions()[0]
	assert.Equal(t, "Optionalstring", fn.ReturnType.CanonicalName())
	assert.Equal(t, "Sequenceu32", fn.Arguments[0].Type.CanonicalName())
	assert.True(t, ci.ContainsType("Optionalstring"))
	assert.True(t, ci.ContainsType("Sequenceu32"))
}

func TestCompileSymbolNamesCarryChecksum(t *testing.T) {
	ci, err := Compile(docWith(&InterfaceDef{
		Name:    "Obj",
		Members: []InterfaceMember{&Operation{Name: "poke"}},
	}))
	require.NoError(t, err)
	obj, _ := ci.GetObjectDefinition("Obj")
	assert.Regexp(t, `^demo_Obj_poke_[0-9a-f]{16}$`, obj.Methods[0].FFIFunc.Name)
	assert.Regexp(t, `^demo_Obj_new_[0-9a-f]{16}$`, obj.Constructors[0].FFIFunc.Name)
}

func nsDoc(ops ...Operation) *Document {
	return &Document{Definitions: []Definition{&Namespace{Name: "demo", Members: ops}}}
}

func TestCompileByRefArgument(t *testing.T) {
	ci, err := Compile(nsDoc(Operation{
		Name: "normalize",
		Arguments: []Argument{
			{
				Name:       "text",
				Type:       typeExpr("string"),
				Attributes: []ExtendedAttribute{{Name: "ByRef"}},
			},
			{Name: "limit", Type: typeExpr("u32")},
		},
	}))
	require.NoError(t, err)

	fn, ok := ci.GetFunctionDefinition("normalize")
	require.True(t, ok)
	require.Len(t, fn.Arguments, 2)
	assert.True(t, fn.Arguments[0].ByRef)
	assert.False(t, fn.Arguments[1].ByRef)
}

func TestCompileRejectsUnknownArgumentAttribute(t *testing.T) {
	_, err := Compile(nsDoc(Operation{
		Name: "poke",
		Arguments: []Argument{{
			Name:       "value",
			Type:       typeExpr("u32"),
			Attributes: []ExtendedAttribute{{Name: "Bogus"}},
		}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnknownAttribute, cerr.Code)
}

func TestCompileRejectsIllegalArgumentAttribute(t *testing.T) {
	_, err := Compile(nsDoc(Operation{
		Name: "poke",
		Arguments: []Argument{{
			Name:       "value",
			Type:       typeExpr("u32"),
			Attributes: []ExtendedAttribute{{Name: "Throws", Value: "SomeError"}},
		}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrIllegalAttribute, cerr.Code)
}

func TestCompileRejectsByRefWithValue(t *testing.T) {
	_, err := Compile(nsDoc(Operation{
		Name: "poke",
		Arguments: []Argument{{
			Name:       "value",
			Type:       typeExpr("u32"),
			Attributes: []ExtendedAttribute{{Name: "ByRef", Value: "x"}},
		}},
	}))
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrMalformedAttribute, cerr.Code)
}
