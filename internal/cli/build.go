package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ffikit/internal/ir"
	"github.com/roach88/ffikit/internal/webidl"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output string // output file path
}

// BuildReport is the serializable view of a finalized component
// interface.
type BuildReport struct {
	Namespace string          `json:"namespace"`
	Enums     []*ir.Enum      `json:"enums,omitempty"`
	Records   []*ir.Record    `json:"records,omitempty"`
	Objects   []*ir.Object    `json:"objects,omitempty"`
	Errors    []*ir.ErrorDef  `json:"errors,omitempty"`
	Functions []*ir.Function  `json:"functions,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <definitions.yaml>",
		Short: "Build the component interface model from a definition file",
		Long: `Build the canonical component interface model from a YAML definition file.

The definitions are converted, checked for consistency, and frozen;
the output includes every definition with its derived FFI signature.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	ci, err := buildInterfaceModel(formatter, path)
	if err != nil {
		return err
	}

	report := newBuildReport(ci)

	if opts.Output != "" {
		if err := writeReportToFile(report, opts.Output); err != nil {
			return outputBuildError(formatter, ExitCommandError, ErrCodeWriteFailed,
				fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputBuildSuccess(formatter, report, opts.Output)
}

// buildInterfaceModel loads a definition file and runs the full
// conversion pipeline. Shared by the build and ffi commands.
func buildInterfaceModel(formatter *OutputFormatter, path string) (*ir.ComponentInterface, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, outputBuildError(formatter, ExitCommandError, loadErr.Code, loadErr.Message)
		}
		return nil, outputBuildError(formatter, ExitCommandError, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Loaded %d definition(s) from %s", len(doc.Definitions), path)

	ci, err := webidl.Compile(doc)
	if err != nil {
		var compileErr *webidl.CompileError
		if errors.As(err, &compileErr) {
			return nil, outputBuildError(formatter, ExitFailure, compileErr.Code, compileErr.Error())
		}
		return nil, outputBuildError(formatter, ExitFailure, ErrCodeCompile, err.Error())
	}
	return ci, nil
}

func newBuildReport(ci *ir.ComponentInterface) *BuildReport {
	return &BuildReport{
		Namespace: ci.Namespace(),
		Enums:     ci.EnumDefinitions(),
		Records:   ci.RecordDefinitions(),
		Objects:   ci.ObjectDefinitions(),
		Errors:    ci.ErrorDefinitions(),
		Functions: ci.FunctionDefinitions(),
	}
}

// outputBuildSuccess outputs a successful build.
func outputBuildSuccess(formatter *OutputFormatter, report *BuildReport, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "✓ Built component interface %q\n\n", report.Namespace)

	if len(report.Enums) > 0 {
		fmt.Fprintln(formatter.Writer, "Enums:")
		for _, e := range report.Enums {
			fmt.Fprintf(formatter.Writer, "  %s: %d variant(s)\n", e.Name, len(e.Variants))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(report.Records) > 0 {
		fmt.Fprintln(formatter.Writer, "Records:")
		for _, r := range report.Records {
			fmt.Fprintf(formatter.Writer, "  %s: %d field(s)\n", r.Name, len(r.Fields))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(report.Objects) > 0 {
		fmt.Fprintln(formatter.Writer, "Objects:")
		for _, o := range report.Objects {
			fmt.Fprintf(formatter.Writer, "  %s: %d constructor(s), %d method(s)\n",
				o.Name, len(o.Constructors), len(o.Methods))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(formatter.Writer, "Errors:")
		for _, e := range report.Errors {
			fmt.Fprintf(formatter.Writer, "  %s: %d value(s)\n", e.Name, len(e.Values))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(report.Functions) > 0 {
		fmt.Fprintln(formatter.Writer, "Functions:")
		for _, f := range report.Functions {
			fmt.Fprintf(formatter.Writer, "  %s: %d argument(s)\n", f.Name, len(f.Arguments))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote interface model to %s\n", outputFile)
	}

	return nil
}

// outputBuildError outputs a build error and maps it to an exit code.
func outputBuildError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// writeReportToFile writes the interface model to a file as indented
// JSON.
func writeReportToFile(report *BuildReport, filename string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling interface model: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
