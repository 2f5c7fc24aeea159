package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/loomspec/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// NewRootCmd builds the loomspec command tree. Output and errors go to the
// given writers so tests can capture them.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "loomspec",
		Short:         "A declarative specification language for composing AI workflows",
		Long:          "loomspec resolves and validates declarative AI workflow documents:\nevery reference, every flow graph, every binding, before anything runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.AddCommand(newValidateCmd(outW, errW))
	return root
}

func newValidateCmd(outW, errW io.Writer) *cobra.Command {
	var (
		logFormat    string
		logLevel     string
		reportFormat string
	)

	cmd := &cobra.Command{
		Use:   "validate PATH [PATH...]",
		Short: "Resolve and validate document files",
		Long: "Loads every .hcl and .yaml document reachable from the given paths,\n" +
			"resolves all references, validates every flow graph, and prints the\n" +
			"aggregated diagnostics. Exits non-zero when the document is invalid.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{
				Paths:        args,
				LogFormat:    logFormat,
				LogLevel:     logLevel,
				ReportFormat: reportFormat,
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			a := app.New(outW, errW, cfg)
			if err := a.Run(cmd.Context()); err != nil {
				if errors.Is(err, app.ErrInvalidDocument) {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				return &ExitError{Code: 2, Message: err.Error()}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	cmd.Flags().StringVar(&reportFormat, "report", "text", "Diagnostics report format: 'text' or 'json'.")
	return cmd
}
