package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checksumPattern matches the 16-hex-digit checksum suffix embedded in
// derived symbol names.
var checksumPattern = regexp.MustCompile(`_[0-9a-f]{16}\b`)

// normalizeChecksums replaces checksum suffixes with a fixed
// placeholder so output can be compared across content changes.
func normalizeChecksums(b []byte) []byte {
	return checksumPattern.ReplaceAll(b, []byte("_XXXXXXXXXXXXXXXX"))
}

func TestFFIListGolden(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewFFICommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "calc.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ffi_calc", normalizeChecksums(buf.Bytes()))
}

func TestFFIListJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewFFICommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "calc.yaml")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report FFIReport
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, "calc", report.Namespace)
	// add, constructor, two methods, object free
	require.Len(t, report.Functions, 5)
	assert.Regexp(t, `^calc_add_[0-9a-f]{16}$`, report.Functions[0].Name)
	assert.Equal(t, "ffi_calc_Counter_object_free", report.Functions[4].Name)
}

func TestFFIListStableAcrossRuns(t *testing.T) {
	run := func() string {
		buf := &bytes.Buffer{}
		cmd := NewFFICommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{filepath.Join("testdata", "calc.yaml")})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}
	assert.Equal(t, run(), run())
}
