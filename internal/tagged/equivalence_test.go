package tagged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ffikit/internal/ir"
	"github.com/roach88/ffikit/internal/webidl"
)

// The two front ends must converge: the same logical interface declared
// through either surface yields byte-identical FFI symbol names, which
// embed the definition checksums.
func TestFrontEndsProduceIdenticalModel(t *testing.T) {
	fromIDL, err := webidl.Compile(&webidl.Document{Definitions: []webidl.Definition{
		&webidl.Namespace{
			Name: "geometry",
			Members: []webidl.Operation{
				{
					Name:       "gradient",
					ReturnType: &webidl.TypeExpr{Name: "f64"},
					Arguments: []webidl.Argument{
						{
							Name:       "value",
							Type:       webidl.TypeExpr{Name: "f64"},
							Attributes: []webidl.ExtendedAttribute{{Name: "ByRef"}},
						},
					},
				},
			},
		},
		&webidl.EnumDef{
			Name:   "Direction",
			Values: []string{"Up", "Down"},
		},
		&webidl.EnumDef{
			Name:       "GeometryError",
			Attributes: []webidl.ExtendedAttribute{{Name: "Error"}},
			Values:     []string{"Degenerate"},
		},
		&webidl.DictionaryDef{
			Name: "Point",
			Members: []webidl.DictionaryMember{
				{Name: "x", Type: webidl.TypeExpr{Name: "f64"}, Required: true},
				{Name: "y", Type: webidl.TypeExpr{Name: "f64"}, Required: true},
			},
		},
		&webidl.InterfaceDef{
			Name: "Line",
			Members: []webidl.InterfaceMember{
				&webidl.ConstructorMember{Arguments: []webidl.Argument{
					{Name: "start", Type: webidl.TypeExpr{Name: "Point"}},
					{Name: "end", Type: webidl.TypeExpr{Name: "Point"}},
				}},
				&webidl.Operation{
					Name:       "length",
					ReturnType: &webidl.TypeExpr{Name: "f64"},
					Attributes: []webidl.ExtendedAttribute{{Name: "Throws", Value: "GeometryError"}},
				},
			},
		},
	}})
	require.NoError(t, err)

	fromTagged, err := Compile(&Module{
		Name: "geometry",
		Decls: []Decl{
			&EnumDecl{
				Name:     "Direction",
				Variants: []VariantDecl{{Name: "Up"}, {Name: "Down"}},
			},
			&EnumDecl{
				Name:     "GeometryError",
				Attrs:    []Attr{{Name: "error"}},
				Variants: []VariantDecl{{Name: "Degenerate"}},
			},
			&StructDecl{
				Name:  "Point",
				Attrs: []Attr{{Name: "record"}},
				Fields: []FieldDecl{
					{Name: "x", Type: TypeExpr{Name: "f64"}, Public: true},
					{Name: "y", Type: TypeExpr{Name: "f64"}, Public: true},
				},
			},
			&StructDecl{Name: "Line"},
			&ImplDecl{
				TypeName: "Line",
				Methods: []MethodDecl{
					{Name: "new", Arguments: []ParamDecl{
						{Name: "start", Type: TypeExpr{Name: "Point"}},
						{Name: "end", Type: TypeExpr{Name: "Point"}},
					}},
					{
						Name:        "length",
						HasReceiver: true,
						ReturnType:  &TypeExpr{Name: "f64"},
						Attrs:       []Attr{{Name: "throws", Value: "GeometryError"}},
					},
				},
			},
			&FnDecl{
				Name:       "gradient",
				ReturnType: &TypeExpr{Name: "f64"},
				Arguments:  []ParamDecl{{Name: "value", Type: TypeExpr{Name: "f64"}, ByRef: true}},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, fromIDL.Namespace(), fromTagged.Namespace())

	wantEnum, _ := fromIDL.GetEnumDefinition("Direction")
	gotEnum, ok := fromTagged.GetEnumDefinition("Direction")
	require.True(t, ok)
	assert.Equal(t, wantEnum, gotEnum)

	wantRec, _ := fromIDL.GetRecordDefinition("Point")
	gotRec, ok := fromTagged.GetRecordDefinition("Point")
	require.True(t, ok)
	assert.Equal(t, wantRec, gotRec)

	wantErr, _ := fromIDL.GetErrorDefinition("GeometryError")
	gotErr, ok := fromTagged.GetErrorDefinition("GeometryError")
	require.True(t, ok)
	assert.Equal(t, wantErr, gotErr)

	wantObj, _ := fromIDL.GetObjectDefinition("Line")
	gotObj, ok := fromTagged.GetObjectDefinition("Line")
	require.True(t, ok)
	assert.Equal(t, wantObj, gotObj)

	// checksum-bearing symbol names match only when the definitions
	// agree in every checksummed detail
	wantSymbols := symbolNames(t, fromIDL)
	gotSymbols := symbolNames(t, fromTagged)
	assert.Equal(t, wantSymbols, gotSymbols)
}

func symbolNames(t *testing.T, ci *ir.ComponentInterface) []string {
	t.Helper()
	funcs := ci.FFIFunctions()
	names := make([]string, 0, len(funcs))
	for _, f := range funcs {
		names = append(names, f.Name)
	}
	return names
}
