package edi834

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportCategory is a report-facing grouping of validation errors,
// keyed off stable substrings of the error message. Downstream report
// renderers filter on these same substrings, so message phrasing in the
// schema table must stay classifiable.
type ReportCategory string

const (
	// CategorySegments covers structural and presence errors
	CategorySegments ReportCategory = "segments"
	// CategoryDateFormats covers date format errors
	CategoryDateFormats ReportCategory = "dateFormats"
	// CategoryLoopIdentifiers covers LS/LE loop identifier errors
	CategoryLoopIdentifiers ReportCategory = "loopIdentifiers"
	// CategoryOther covers everything else
	CategoryOther ReportCategory = "other"
)

// reportCategories is the fixed rendering order
var reportCategories = []ReportCategory{
	CategorySegments,
	CategoryDateFormats,
	CategoryLoopIdentifiers,
	CategoryOther,
}

// Classify assigns a validation error to a report category. The first
// matching substring wins: loop identifier, then date format, then
// segment/missing. The specific substrings are checked before "segment"
// because most field-level messages name their segment too.
func Classify(e ValidationError) ReportCategory {
	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "loop identifier"):
		return CategoryLoopIdentifiers
	case strings.Contains(msg, "date format"):
		return CategoryDateFormats
	case strings.Contains(msg, "segment") || strings.Contains(msg, "missing"):
		return CategorySegments
	default:
		return CategoryOther
	}
}

// Report is the grouped result of one validation run - the data a
// report renderer or CLI needs, with no formatting applied
type Report struct {
	// ID uniquely identifies this run
	ID string `json:"id"`
	// Profile names the guide profile the run validated against
	Profile     string    `json:"profile,omitempty"`
	SourcePath  string    `json:"sourcePath,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Valid       bool      `json:"valid"`
	Total       int       `json:"total"`
	// Categories holds each category's errors in insertion order.
	// Categories with no errors are omitted.
	Categories map[ReportCategory][]ValidationError `json:"categories,omitempty"`
	// Errors is the full ordered error list
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewReport groups the given error list into a Report. The error slice
// is stored as-is; ordering is preserved both overall and within each
// category.
func NewReport(sourcePath string, validationErrors []ValidationError) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		SourcePath:  sourcePath,
		GeneratedAt: time.Now().UTC(),
		Valid:       len(validationErrors) == 0,
		Total:       len(validationErrors),
		Errors:      validationErrors,
	}
	if len(validationErrors) > 0 {
		r.Categories = make(map[ReportCategory][]ValidationError)
		for _, e := range validationErrors {
			category := Classify(e)
			r.Categories[category] = append(r.Categories[category], e)
		}
	}
	return r
}

// CategoryCounts returns the number of errors per category, in the
// fixed rendering order. Empty categories are included with a zero
// count so summaries are shaped consistently across runs.
func (r *Report) CategoryCounts() []CategoryCount {
	counts := make([]CategoryCount, 0, len(reportCategories))
	for _, category := range reportCategories {
		counts = append(counts, CategoryCount{
			Category: category,
			Count:    len(r.Categories[category]),
		})
	}
	return counts
}

// CategoryCount pairs a report category with its error count
type CategoryCount struct {
	Category ReportCategory `json:"category"`
	Count    int            `json:"count"`
}
