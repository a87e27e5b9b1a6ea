// Package edi834 validates flat-file EDI X12 834 (benefit enrollment)
// transactions against the NY HCS implementation guide profile: field
// formats, code value sets, and mandatory segment presence.
package edi834

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCategory classifies a ValidationError
type ErrorCategory uint

const (
	UnknownCategory ErrorCategory = iota
	// Structural indicates a segment with fewer data elements than its
	// spec requires. It halts further field checks for that segment only.
	Structural
	// Format indicates an element value that failed a pattern check
	Format
	// CodeValue indicates an element value outside an enumerated code set
	CodeValue
	// ConditionalFormat indicates a qualifier-dependent element value
	// that failed the check selected by its qualifier
	ConditionalFormat
	// Presence indicates a required segment code absent at end of file
	Presence
	// System indicates an I/O failure reading the source file; it is the
	// only category that halts document scanning
	System
)

func (c ErrorCategory) String() string {
	names := map[ErrorCategory]string{
		UnknownCategory:   "",
		Structural:        "structural",
		Format:            "format",
		CodeValue:         "codeValue",
		ConditionalFormat: "conditionalFormat",
		Presence:          "presence",
		System:            "system",
	}
	return names[c]
}

func (c ErrorCategory) GoString() string {
	s := map[ErrorCategory]string{
		UnknownCategory:   "UnknownCategory",
		Structural:        "Structural",
		Format:            "Format",
		CodeValue:         "CodeValue",
		ConditionalFormat: "ConditionalFormat",
		Presence:          "Presence",
		System:            "System",
	}
	return s[c]
}

func (c ErrorCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ErrorCategory) UnmarshalJSON(b []byte) error {
	var categoryName string

	if err := json.Unmarshal(b, &categoryName); err != nil {
		return err
	}
	switch categoryName {
	case "":
		*c = UnknownCategory
	case "structural":
		*c = Structural
	case "format":
		*c = Format
	case "codeValue":
		*c = CodeValue
	case "conditionalFormat":
		*c = ConditionalFormat
	case "presence":
		*c = Presence
	case "system":
		*c = System
	default:
		return fmt.Errorf("unknown ErrorCategory: %s", categoryName)
	}
	return nil
}

// ValidationError is a single finding against one segment (or, for
// Presence/System errors, against the document). Values are created in
// bulk by DocumentValidator and never mutated afterward.
type ValidationError struct {
	SegmentCode string        `json:"segmentCode"`
	FieldLabel  string        `json:"fieldLabel"`
	Message     string        `json:"message"`
	LineNumber  int           `json:"lineNumber"`
	Category    ErrorCategory `json:"category"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf(
		"Line %d: %s - %s: %s",
		e.LineNumber,
		e.SegmentCode,
		e.FieldLabel,
		e.Message,
	)
}

// Segment is one parsed logical record: the segment code, the 1-based
// source line it came from, and the element values split on the element
// separator. Element 0 is the segment code itself.
type Segment struct {
	Code       string
	LineNumber int
	fields     []string
}

// ParseSegment splits a single logical record into a Segment. A trailing
// segment terminator is stripped and surrounding whitespace trimmed before
// splitting; this never fails for any input (worst case, a one-element
// field list). The second return value is false when the line is empty
// after normalization - an empty line is skipped entirely, not a fault.
func ParseSegment(rawLine string, lineNumber int) (Segment, bool) {
	line := strings.TrimSpace(rawLine)
	line = strings.TrimSuffix(line, segmentTerminator)
	line = strings.TrimSpace(line)
	if line == "" {
		return Segment{}, false
	}
	fields := strings.Split(line, elementSeparator)
	return Segment{
		Code:       fields[0],
		LineNumber: lineNumber,
		fields:     fields,
	}, true
}

// Field returns the element at the given index. Index 0 is the segment
// code. Out-of-range access returns an empty string - the absence of an
// optional element is not itself a fault.
func (s Segment) Field(index int) string {
	if index < 0 || index >= len(s.fields) {
		return ""
	}
	return s.fields[index]
}

// Fields returns a copy of the segment's elements, including element 0
// (the segment code)
func (s Segment) Fields() []string {
	fields := make([]string, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// DataFieldCount returns the number of data elements, excluding element 0
func (s Segment) DataFieldCount() int {
	if len(s.fields) == 0 {
		return 0
	}
	return len(s.fields) - 1
}

func (s Segment) String() string {
	return strings.Join(s.fields, elementSeparator) + segmentTerminator
}

// sliceContains returns true if the given value is present in the given slice
func sliceContains[V comparable](row []V, val V) bool {
	for _, v := range row {
		if v == val {
			return true
		}
	}
	return false
}
