package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"supermodeler/declare"
	"supermodeler/diagnostic"
)

type checkFlags struct {
	strict bool
	format string
}

func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a declaration file",
		Long: `Validate a YAML declaration file without registering anything.

Reports unknown fields and model references with suggestions, rules that
cannot compile and duplicated declarations. Function references are not
resolved since no function table is available here.

Examples:
  # Check a file
  supermodeler check models.yaml

  # Strict mode (warnings as errors)
  supermodeler check models.yaml --strict

  # JSON output for CI/CD
  supermodeler check models.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

// CheckResult is the outcome of checking one declaration file.
type CheckResult struct {
	File        string           `json:"file"`
	Valid       bool             `json:"valid"`
	Models      int              `json:"models"`
	Maps        int              `json:"maps"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// DiagnosticJSON is the JSON form of a diagnostic.
type DiagnosticJSON struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Subject     string   `json:"subject,omitempty"`
	Field       string   `json:"field,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func runCheck(out io.Writer, path string, flags *checkFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("unsupported format %q", flags.format)
	}

	f, err := declare.LoadFile(path)
	if err != nil {
		return err
	}

	diags := declare.Check(f, nil, nil)

	result := CheckResult{
		File:   path,
		Valid:  !diags.HasErrors() && !(flags.strict && len(diags.Warnings) > 0),
		Models: len(f.Models),
		Maps:   len(f.Maps),
	}

	for _, d := range diags.All() {
		result.Diagnostics = append(result.Diagnostics, DiagnosticJSON{
			Severity:    d.Severity.String(),
			Code:        d.Code,
			Message:     d.Message,
			Subject:     d.Subject,
			Field:       d.Field,
			Suggestions: d.Suggestions,
		})
	}

	if flags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printCheckText(out, result, diags)
	}

	if !result.Valid {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", path, len(diags.Errors), len(diags.Warnings))
	}

	return nil
}

func printCheckText(out io.Writer, result CheckResult, diags *diagnostic.Diagnostics) {
	fmt.Fprintf(out, "Checking %s...\n", result.File)

	for _, d := range diags.All() {
		fmt.Fprintf(out, "  %s: %s\n", d.Severity, d)
	}

	fmt.Fprintf(out, "%d model(s), %d map(s): %d error(s), %d warning(s)\n",
		result.Models, result.Maps, len(diags.Errors), len(diags.Warnings))
}
