package edi834

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrFileRead = errors.New("error reading EDI file")

const (
	systemSegmentCode = "SYSTEM"
	systemFieldLabel  = "File"
	fieldCountLabel   = "Fields"
	presenceLabel     = "Segment"
)

// EvaluateSegment applies a segment schema to a parsed segment and
// returns every resulting error, in declared rule order.
//
// If the segment has fewer data elements than the schema's MinFields,
// exactly one structural error is returned and no field rules run - the
// short-circuit is local to the segment. Otherwise each rule is
// evaluated independently against the whitespace-trimmed element value;
// one failed rule never suppresses the next.
func EvaluateSegment(segment Segment, spec *SegmentSpec) []ValidationError {
	if segment.DataFieldCount() < spec.MinFields {
		return []ValidationError{
			{
				SegmentCode: spec.Code,
				FieldLabel:  fieldCountLabel,
				Message: fmt.Sprintf(
					"%s segment has insufficient fields (expected %d, found %d)",
					spec.Code,
					spec.MinFields,
					segment.DataFieldCount(),
				),
				LineNumber: segment.LineNumber,
				Category:   Structural,
			},
		}
	}

	var validationErrors []ValidationError
	for _, rule := range spec.Rules {
		if e := evaluateRule(segment, spec, rule); e != nil {
			validationErrors = append(validationErrors, *e)
		}
	}
	return validationErrors
}

// evaluateRule evaluates a single FieldRule, resolving conditional rules
// to the sub-rule selected by the qualifier element. An unrecognized
// qualifier value selects nothing, and no check is applied.
func evaluateRule(
	segment Segment,
	spec *SegmentSpec,
	rule *FieldRule,
) *ValidationError {
	if rule.Kind != ConditionalRule {
		return evaluateValueRule(segment, spec, rule, rule.Kind)
	}
	qualifier := strings.TrimSpace(segment.Field(rule.Condition.Index))
	subRule, ok := rule.Condition.Rules[qualifier]
	if !ok {
		return nil
	}
	e := evaluateValueRule(segment, spec, subRule, subRule.Kind)
	if e != nil {
		e.Category = ConditionalFormat
	}
	return e
}

// evaluateValueRule evaluates the given string against a RegexRule or
// CodeSetRule, and returns an error if it's invalid according to the
// rule. Empty values pass unless the rule is marked required.
func evaluateValueRule(
	segment Segment,
	spec *SegmentSpec,
	rule *FieldRule,
	kind RuleKind,
) *ValidationError {
	value := strings.TrimSpace(segment.Field(rule.Index))
	if value == "" && !rule.Required {
		return nil
	}

	var category ErrorCategory
	var valid bool
	switch kind {
	case RegexRule:
		valid = rule.pattern.MatchString(value)
		category = Format
	case CodeSetRule:
		valid = sliceContains(rule.Codes, value)
		category = CodeValue
	default:
		// spec validation rejects any other kind before evaluation
		return nil
	}
	if valid {
		return nil
	}
	return &ValidationError{
		SegmentCode: spec.Code,
		FieldLabel:  rule.Label,
		Message:     fmt.Sprintf(rule.Message, value),
		LineNumber:  segment.LineNumber,
		Category:    category,
	}
}

// DocumentValidator scans one 834 document line by line, validates each
// schema-covered segment, and tracks which required segment codes were
// observed. It holds per-run state - use one DocumentValidator per
// document, and one per goroutine when validating files concurrently.
type DocumentValidator struct {
	specs            map[string]*SegmentSpec
	requiredSegments []string
	observedSegments map[string]bool
	validationErrors []ValidationError
	logger           *slog.Logger
	lineNumber       int
	readErr          error
}

// Option configures a DocumentValidator
type Option func(*DocumentValidator) error

// WithProfile builds the validator's schema table and required segment
// set from the given guide profile instead of the embedded default
func WithProfile(p *Profile) Option {
	return func(v *DocumentValidator) error {
		specs, err := p.SegmentSpecs()
		if err != nil {
			return err
		}
		v.specs = specs
		v.requiredSegments = p.RequiredSegments
		return nil
	}
}

// WithLogger sets the logger used for scan diagnostics (unknown segment
// codes are logged at debug level)
func WithLogger(logger *slog.Logger) Option {
	return func(v *DocumentValidator) error {
		v.logger = logger
		return nil
	}
}

// NewDocumentValidator creates a validator for a single document, using
// the embedded NY HCS profile unless overridden
func NewDocumentValidator(opts ...Option) (*DocumentValidator, error) {
	v := &DocumentValidator{
		specs:            defaultSegmentSpecs,
		requiredSegments: defaultProfile.RequiredSegments,
		observedSegments: make(map[string]bool),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ValidateFile opens and validates the file at the given path. A file
// that cannot be opened yields exactly one system error and no presence
// errors - the end-of-file presence check only runs over a fully
// observed document.
func (v *DocumentValidator) ValidateFile(path string) []ValidationError {
	f, err := os.Open(path)
	if err != nil {
		v.addSystemError(err)
		return v.validationErrors
	}
	defer func() {
		_ = f.Close()
	}()
	return v.Validate(f)
}

// Validate scans the document from r. It returns the full, ordered
// error list: line order, then within-segment check order, then
// presence errors in the required list's declaration order. An empty
// result means the document is valid.
func (v *DocumentValidator) Validate(r io.Reader) []ValidationError {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		v.lineNumber++
		segment, ok := ParseSegment(scanner.Text(), v.lineNumber)
		if !ok {
			continue
		}
		// an unvalidated segment type still counts as observed
		v.observedSegments[segment.Code] = true

		spec, ok := v.specs[segment.Code]
		if !ok {
			v.logger.Debug(
				"unknown segment code",
				"segmentCode", segment.Code,
				"lineNumber", segment.LineNumber,
			)
			continue
		}
		v.validationErrors = append(
			v.validationErrors,
			EvaluateSegment(segment, spec)...,
		)
	}
	if err := scanner.Err(); err != nil {
		v.addSystemError(err)
		return v.validationErrors
	}

	for _, code := range v.requiredSegments {
		if !v.observedSegments[code] {
			v.validationErrors = append(v.validationErrors, ValidationError{
				SegmentCode: code,
				FieldLabel:  presenceLabel,
				Message:     fmt.Sprintf("Missing required %s segment", code),
				LineNumber:  v.lineNumber,
				Category:    Presence,
			})
		}
	}
	return v.validationErrors
}

// Errors returns all errors accumulated so far
func (v *DocumentValidator) Errors() []ValidationError {
	return v.validationErrors
}

// LineNumber returns the number of the last line read
func (v *DocumentValidator) LineNumber() int {
	return v.lineNumber
}

// SegmentObserved reports whether a segment with the given code has
// been seen during the scan
func (v *DocumentValidator) SegmentObserved(segmentCode string) bool {
	return v.observedSegments[segmentCode]
}

// ReadErr returns the I/O failure that halted the scan, wrapped with
// ErrFileRead, or nil if the input was read completely
func (v *DocumentValidator) ReadErr() error {
	return v.readErr
}

func (v *DocumentValidator) addSystemError(err error) {
	v.readErr = fmt.Errorf("%w: %v", ErrFileRead, err)
	v.validationErrors = append(v.validationErrors, ValidationError{
		SegmentCode: systemSegmentCode,
		FieldLabel:  systemFieldLabel,
		Message:     fmt.Sprintf("Error reading EDI file: %s", err.Error()),
		LineNumber:  v.lineNumber,
		Category:    System,
	})
}
