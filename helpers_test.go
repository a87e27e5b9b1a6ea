package edi834

import (
	"os"
	"testing"
)

func assertEqual[V comparable](t *testing.T, val V, expected V) {
	t.Helper()
	if val != expected {
		t.Errorf("expected:\n%#v\n\ngot:\n%#v", expected, val)
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func assertSliceContains[V comparable](t *testing.T, row []V, expected V) {
	t.Helper()
	if !sliceContains(row, expected) {
		t.Errorf("expected %v to be in slice %v", expected, row)
	}
}

// enrollment834 fixture contents model a minimal, fully valid 834
// transaction, one segment per line.
func enrollment834(t *testing.T) []byte {
	t.Helper()
	file, err := os.ReadFile("testdata/834_valid.txt")
	assertNoError(t, err)
	return file
}

// enrollment834Errors fixture contents contain one invalid field per
// affected segment, six errors in total.
func enrollment834Errors(t *testing.T) []byte {
	t.Helper()
	file, err := os.ReadFile("testdata/834_errors.txt")
	assertNoError(t, err)
	return file
}

// newValidator creates a DocumentValidator with default options and fails
// the test if there's an error, to reduce boilerplate.
func newValidator(t *testing.T, opts ...Option) *DocumentValidator {
	t.Helper()
	v, err := NewDocumentValidator(opts...)
	assertNoError(t, err)
	return v
}
