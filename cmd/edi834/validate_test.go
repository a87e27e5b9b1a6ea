package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyhcs/edi834"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	validateFlags.profile = ""
	validateFlags.format = "text"

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestValidateCommandValidFile(t *testing.T) {
	out, err := executeCommand(t, "validate", "../../testdata/834_valid.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "EDI file is valid!")
}

func TestValidateCommandInvalidFile(t *testing.T) {
	out, err := executeCommand(t, "validate", "../../testdata/834_errors.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6 validation errors")
	assert.Contains(t, out, "EDI file has 6 validation errors:")
	assert.Contains(
		t,
		out,
		"- Line 16 (LE): Loop Identifier - Invalid loop identifier in "+
			"LE segment: 9999",
	)
	assert.Contains(t, out, "loopIdentifiers: 1")
}

func TestValidateCommandInvalidFileJSON(t *testing.T) {
	out, err := executeCommand(
		t, "validate", "--format", "json", "../../testdata/834_errors.txt",
	)
	require.Error(t, err)

	report := &edi834.Report{}
	require.NoError(t, json.Unmarshal([]byte(out), report))
	assert.False(t, report.Valid)
	assert.Equal(t, 6, report.Total)
}

func TestValidateCommandJSONOutput(t *testing.T) {
	out, err := executeCommand(
		t, "validate", "--format", "json", "../../testdata/834_valid.txt",
	)
	require.NoError(t, err)

	report := &edi834.Report{}
	require.NoError(t, json.Unmarshal([]byte(out), report))
	assert.True(t, report.Valid)
	assert.Zero(t, report.Total)
	assert.Equal(t, "nyhcs", report.Profile)
	assert.NotEmpty(t, report.ID)
}

func TestValidateCommandUnsupportedFormat(t *testing.T) {
	_, err := executeCommand(
		t, "validate", "--format", "xml", "../../testdata/834_valid.txt",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestValidateCommandMissingProfile(t *testing.T) {
	_, err := executeCommand(
		t,
		"validate",
		"--profile", "does-not-exist.yaml",
		"../../testdata/834_valid.txt",
	)
	require.Error(t, err)
}

func TestPrintTextReport(t *testing.T) {
	validationErrors := []edi834.ValidationError{
		{
			SegmentCode: "LE",
			FieldLabel:  "Loop Identifier",
			Message:     "Invalid loop identifier in LE segment: 9999",
			LineNumber:  16,
			Category:    edi834.CodeValue,
		},
	}
	report := edi834.NewReport("errors.txt", validationErrors)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	printTextReport(validateCmd, report)

	out := buf.String()
	assert.Contains(t, out, "EDI file has 1 validation errors:")
	assert.Contains(
		t,
		out,
		"- Line 16 (LE): Loop Identifier - Invalid loop identifier in "+
			"LE segment: 9999",
	)
	assert.Contains(t, out, "Summary:")
	assert.Contains(t, out, "loopIdentifiers: 1")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "edi834 "))
}
