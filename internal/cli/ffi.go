package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ffikit/internal/ir"
)

// FFIOptions holds flags for the ffi command.
type FFIOptions struct {
	*RootOptions
}

// FFIReport is the serializable view of the derived FFI layer.
type FFIReport struct {
	Namespace string           `json:"namespace"`
	Functions []ir.FFIFunction `json:"functions"`
}

// NewFFICommand creates the ffi command.
func NewFFICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FFIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ffi <definitions.yaml>",
		Short: "List the derived FFI symbols of a definition file",
		Long: `Build the component interface model and print its flat FFI layer:
every derived symbol with its lowered argument and return types.

Symbol names embed the definition checksums, so they change whenever
any checksummed detail of the owning definition changes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFFI(opts, args[0], cmd)
		},
	}

	return cmd
}

func runFFI(opts *FFIOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ci, err := buildInterfaceModel(formatter, path)
	if err != nil {
		return err
	}

	report := &FFIReport{
		Namespace: ci.Namespace(),
		Functions: ci.FFIFunctions(),
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "FFI symbols for %q:\n\n", report.Namespace)
	for _, f := range report.Functions {
		fmt.Fprintf(formatter.Writer, "  %s\n", formatFFISignature(f))
	}
	return nil
}

// formatFFISignature renders one flat function as a C-flavored
// signature line.
func formatFFISignature(f ir.FFIFunction) string {
	args := make([]string, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		args = append(args, fmt.Sprintf("%s %s", a.Type, a.Name))
	}
	ret := "void"
	if f.ReturnType != nil {
		ret = f.ReturnType.String()
	}
	return fmt.Sprintf("%s %s(%s)", ret, f.Name, strings.Join(args, ", "))
}
