package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/export"
	"github.com/kapu/astroweb-go/internal/generation"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/render"
)

var errNotJSON = errors.New("input is not valid JSON")

// readLayout reads raw model output or stored layout JSON from path, or stdin
// when path is empty or "-". Code fences are stripped before decoding.
func readLayout(cmd *cobra.Command, operation, path string) (domain.Layout, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Layout{}, newCommandError(operation, "reading input", err, "Check that the file exists and is readable.")
	}

	text := generation.StripFences(string(data))
	if !json.Valid([]byte(text)) {
		return domain.Layout{}, newCommandError(operation, "decoding layout", errNotJSON, "Pass a JSON object, optionally wrapped in a ``` fence.")
	}
	return normalize.FromJSON([]byte(text)), nil
}

func writeOutput(cmd *cobra.Command, operation, path, body string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), body)
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return newCommandError(operation, fmt.Sprintf("writing %s", path), err, "Check that the directory exists and is writable.")
	}
	return nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newNormalizeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the canonical layout for raw model output or stored JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLayout(cmd, "normalize", inputArg(args))
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(l, "", "  ")
			if err != nil {
				return newCommandError("normalize", "encoding layout", err, "Report this layout as a bug.")
			}
			return writeOutput(cmd, "normalize", flags.output, string(out)+"\n")
		},
	}
}

type renderOptions struct {
	editor   bool
	fragment bool
	endpoint string
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a layout as a preview page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLayout(cmd, "render", inputArg(args))
			if err != nil {
				return err
			}
			r := render.NewPreview()
			if opts.editor {
				r = render.NewEditor()
			}
			html, err := r.RenderString(l, render.Options{
				EditEndpoint: opts.endpoint,
				Year:         flags.year,
				Fragment:     opts.fragment,
			})
			if err != nil {
				return newCommandError("render", "executing templates", err, "Run 'sitegen normalize' on the input to inspect the layout.")
			}
			return writeOutput(cmd, "render", flags.output, html)
		},
	}

	cmd.Flags().BoolVar(&opts.editor, "editor", false, "Mark editable text with data-edit paths")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Render only the body markup")
	cmd.Flags().StringVar(&opts.endpoint, "edit-endpoint", "", "Endpoint the editor script posts edits to")

	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a layout as a standalone HTML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLayout(cmd, "export", inputArg(args))
			if err != nil {
				return err
			}
			html := export.Render(l, export.Options{Year: flags.year})

			target := flags.output
			if dir != "" {
				target = filepath.Join(dir, export.FileName(l))
			}
			if err := writeOutput(cmd, "export", target, html); err != nil {
				return err
			}
			if target != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Write <sitename>.html into this directory")

	return cmd
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the supported theme styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range domain.ThemeStyles() {
				marker := " "
				if s == domain.DefaultThemeStyle {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %s\n", marker, s, s.Label())
			}
			return nil
		},
	}
}
