package edi834

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected ReportCategory
	}{
		{
			name:     "structural",
			message:  "ISA segment has insufficient fields (expected 16, found 3)",
			expected: CategorySegments,
		},
		{
			name:     "presence",
			message:  "Missing required LE segment",
			expected: CategorySegments,
		},
		{
			name:     "date format",
			message:  "Invalid date format: 2023011 (must be CCYYMMDD)",
			expected: CategoryDateFormats,
		},
		{
			name:     "date format qualifier",
			message:  "Invalid date format qualifier in DMG segment: D9",
			expected: CategoryDateFormats,
		},
		{
			name:     "loop identifier",
			message:  "Invalid loop identifier in LS segment: 9999",
			expected: CategoryLoopIdentifiers,
		},
		{
			name:     "other",
			message:  "Invalid time format: 125 (must be HHMM)",
			expected: CategoryOther,
		},
		{
			name:     "loop identifier wins over segment mention",
			message:  "Invalid loop identifier in LS segment: 0000",
			expected: CategoryLoopIdentifiers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(ValidationError{Message: tt.message})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewReportValid(t *testing.T) {
	r := NewReport("testdata/834_valid.txt", nil)
	assert.NotEmpty(t, r.ID)
	assert.True(t, r.Valid)
	assert.Zero(t, r.Total)
	assert.Empty(t, r.Categories)
	assert.False(t, r.GeneratedAt.IsZero())
}

func TestNewReportGroupsErrors(t *testing.T) {
	v := newValidator(t)
	validationErrors := v.Validate(bytes.NewReader(enrollment834Errors(t)))
	require.Len(t, validationErrors, 6)

	r := NewReport("testdata/834_errors.txt", validationErrors)
	assert.False(t, r.Valid)
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, "testdata/834_errors.txt", r.SourcePath)
	assert.Equal(t, validationErrors, r.Errors)

	require.Len(t, r.Categories[CategorySegments], 1)
	assert.Equal(t, "REF", r.Categories[CategorySegments][0].SegmentCode)
	require.Len(t, r.Categories[CategoryDateFormats], 1)
	assert.Equal(t, "BGN", r.Categories[CategoryDateFormats][0].SegmentCode)
	require.Len(t, r.Categories[CategoryLoopIdentifiers], 1)
	assert.Equal(t, "LE", r.Categories[CategoryLoopIdentifiers][0].SegmentCode)
	require.Len(t, r.Categories[CategoryOther], 3)
}

func TestNewReportUniqueIds(t *testing.T) {
	a := NewReport("a.txt", nil)
	b := NewReport("b.txt", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCategoryCounts(t *testing.T) {
	v := newValidator(t)
	validationErrors := v.Validate(bytes.NewReader(enrollment834Errors(t)))
	r := NewReport("testdata/834_errors.txt", validationErrors)

	counts := r.CategoryCounts()
	require.Len(t, counts, 4)
	assert.Equal(t, CategoryCount{CategorySegments, 1}, counts[0])
	assert.Equal(t, CategoryCount{CategoryDateFormats, 1}, counts[1])
	assert.Equal(t, CategoryCount{CategoryLoopIdentifiers, 1}, counts[2])
	assert.Equal(t, CategoryCount{CategoryOther, 3}, counts[3])
}

func TestCategoryCountsEmptyReport(t *testing.T) {
	counts := NewReport("a.txt", nil).CategoryCounts()
	require.Len(t, counts, 4)
	for _, c := range counts {
		assert.Zero(t, c.Count)
	}
}
