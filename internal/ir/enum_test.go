package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumHasAssociatedData(t *testing.T) {
	plain := &Enum{
		Name:     "Mode",
		Variants: []Variant{{Name: "one"}, {Name: "two"}},
	}
	assert.False(t, plain.HasAssociatedData())

	carrying := &Enum{
		Name: "Shape",
		Variants: []Variant{
			{Name: "Zero"},
			{Name: "One", Fields: []Field{{Name: "first", Type: Type{Kind: TypeUInt32}}}},
		},
	}
	assert.True(t, carrying.HasAssociatedData())
}

func TestEnumPreservesDuplicateVariants(t *testing.T) {
	// Weird, but currently allowed: duplicate variant names are kept in
	// declaration order and counted.
	e := &Enum{
		Name:     "Mode",
		Variants: []Variant{{Name: "one"}, {Name: "two"}, {Name: "one"}},
	}
	assert.Len(t, e.Variants, 3)
	assert.Equal(t, "one", e.Variants[0].Name)
	assert.Equal(t, "one", e.Variants[2].Name)
}

func TestVariantHasFields(t *testing.T) {
	v := Variant{Name: "Zero"}
	assert.False(t, v.HasFields())

	v = Variant{Name: "One", Fields: []Field{{Name: "first", Type: Type{Kind: TypeUInt32}}}}
	assert.True(t, v.HasFields())
}

func TestEnumChecksumCoversVariantFields(t *testing.T) {
	e1 := &Enum{Name: "Shape", Variants: []Variant{{Name: "One", Fields: []Field{{Name: "first", Type: Type{Kind: TypeUInt32}}}}}}
	e2 := &Enum{Name: "Shape", Variants: []Variant{{Name: "One", Fields: []Field{{Name: "first", Type: Type{Kind: TypeUInt64}}}}}}

	assert.NotEqual(t, MustChecksum(e1), MustChecksum(e2))
}
