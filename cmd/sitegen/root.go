package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	output string
	year   int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sitegen",
		Short:         "Normalize, preview and export website layouts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.PersistentFlags().IntVar(&flags.year, "year", 0, "Copyright year for rendered footers (default: current year)")

	cmd.AddCommand(newNormalizeCmd(flags))
	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newStylesCmd())

	return cmd
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
