package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumDeterminism(t *testing.T) {
	fn := &Function{
		Name: "gcd",
		Arguments: []Argument{
			{Name: "a", Type: Type{Kind: TypeUInt64}},
			{Name: "b", Type: Type{Kind: TypeUInt64}},
		},
	}

	sum1, err := Checksum(fn)
	require.NoError(t, err)
	sum2, err := Checksum(fn)
	require.NoError(t, err)

	assert.Equal(t, sum1, sum2, "checksum must be deterministic")
	assert.Len(t, sum1, 16, "checksum suffix is 16 hex characters")
}

func TestChecksumChangesWithContent(t *testing.T) {
	base := &Function{
		Name:      "frobnicate",
		Arguments: []Argument{{Name: "level", Type: Type{Kind: TypeUInt32}}},
	}
	renamed := &Function{
		Name:      "frobnicate2",
		Arguments: []Argument{{Name: "level", Type: Type{Kind: TypeUInt32}}},
	}
	retyped := &Function{
		Name:      "frobnicate",
		Arguments: []Argument{{Name: "level", Type: Type{Kind: TypeUInt64}}},
	}
	throwing := &Function{
		Name:      "frobnicate",
		Arguments: []Argument{{Name: "level", Type: Type{Kind: TypeUInt32}}},
		Throws:    "FrobError",
	}

	sum := MustChecksum(base)
	assert.NotEqual(t, sum, MustChecksum(renamed), "name change must change checksum")
	assert.NotEqual(t, sum, MustChecksum(retyped), "argument type change must change checksum")
	assert.NotEqual(t, sum, MustChecksum(throwing), "attribute change must change checksum")
}

func TestChecksumExcludesDerivedFFIData(t *testing.T) {
	fn := &Function{Name: "ping"}
	before := MustChecksum(fn)

	// deriving the flat signature must not perturb the checksum: the
	// symbol name embeds the checksum itself
	require.NoError(t, fn.deriveFFIFunc("demo"))
	assert.Equal(t, before, MustChecksum(fn))
}

func TestChecksumHexEncoding(t *testing.T) {
	sum := MustChecksum(&Function{Name: "ping"})
	for _, c := range sum {
		valid := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, valid, "checksum should only contain hex characters, got: %c", c)
	}
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "foo" + 0x00 + "bar" != "foob" + 0x00 + "ar"
	hash1 := hashWithDomain("foo", []byte("bar"))
	hash2 := hashWithDomain("foob", []byte("ar"))

	assert.NotEqual(t, hash1, hash2, "null separator must prevent boundary confusion")
}

func TestDomainConstant(t *testing.T) {
	assert.Equal(t, "ffikit/definition/v1", DomainDefinition)
}

func TestChecksumAcrossDefinitionKinds(t *testing.T) {
	// same logical name in different definition kinds must not collide
	enum := &Enum{Name: "Thing", Variants: []Variant{{Name: "one"}}}
	errDef := &ErrorDef{Name: "Thing", Values: []string{"one"}}

	assert.NotEqual(t, MustChecksum(enum), MustChecksum(errDef))
}
