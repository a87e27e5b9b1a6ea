package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nyhcs/edi834"
)

var validateFlags struct {
	profile string
	format  string
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an 834 file against the guide profile",
	Long: `Validate a single EDI 834 file and print every finding.

Examples:
  # Validate against the embedded NY HCS profile
  edi834 validate sample-834.edi

  # Validate against a custom guide profile
  edi834 validate --profile profiles/custom.yaml sample-834.edi

  # Machine-readable report
  edi834 validate --format json sample-834.edi`,
	Args: cobra.ExactArgs(1),
	RunE: validateFile,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.profile, "profile", "", "path to a YAML guide profile (uses the embedded NY HCS profile if not specified)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func validateFile(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	opts := []edi834.Option{
		edi834.WithLogger(slog.Default()),
	}
	profile := edi834.DefaultProfile()
	if validateFlags.profile != "" {
		p, err := edi834.LoadProfile(validateFlags.profile)
		if err != nil {
			return err
		}
		profile = p
		opts = append(opts, edi834.WithProfile(p))
	}

	validator, err := edi834.NewDocumentValidator(opts...)
	if err != nil {
		return err
	}
	validationErrors := validator.ValidateFile(filePath)

	report := edi834.NewReport(filePath, validationErrors)
	report.Profile = profile.Name

	switch validateFlags.format {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	case "text":
		printTextReport(cmd, report)
	default:
		return fmt.Errorf("unsupported format: %s", validateFlags.format)
	}

	if !report.Valid {
		return fmt.Errorf(
			"%s: %d validation errors", filePath, report.Total,
		)
	}
	return nil
}

func printTextReport(cmd *cobra.Command, report *edi834.Report) {
	out := cmd.OutOrStdout()
	if report.Valid {
		_, _ = fmt.Fprintln(out, "EDI file is valid!")
		return
	}
	_, _ = fmt.Fprintf(
		out,
		"EDI file has %d validation errors:\n",
		report.Total,
	)
	for _, e := range report.Errors {
		_, _ = fmt.Fprintf(
			out,
			"- Line %d (%s): %s - %s\n",
			e.LineNumber,
			e.SegmentCode,
			e.FieldLabel,
			e.Message,
		)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Summary:")
	for _, c := range report.CategoryCounts() {
		_, _ = fmt.Fprintf(out, "  %s: %d\n", c.Category, c.Count)
	}
}
