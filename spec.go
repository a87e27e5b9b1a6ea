package edi834

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RuleKind indicates how a FieldRule evaluates its target element
type RuleKind uint

const (
	UnknownRule RuleKind = iota
	// RegexRule requires the element value to match a pattern
	RegexRule
	// CodeSetRule requires the element value to equal one of a fixed
	// set of literal codes
	CodeSetRule
	// ConditionalRule selects a sub-rule for the target element based
	// on the value of a sibling qualifier element. Unrecognized
	// qualifier values select nothing and the element is not checked.
	ConditionalRule
)

func (k RuleKind) String() string {
	names := map[RuleKind]string{
		UnknownRule:     "",
		RegexRule:       "regex",
		CodeSetRule:     "codeSet",
		ConditionalRule: "conditional",
	}
	return names[k]
}

func (k RuleKind) GoString() string {
	s := map[RuleKind]string{
		UnknownRule:     "UnknownRule",
		RegexRule:       "RegexRule",
		CodeSetRule:     "CodeSetRule",
		ConditionalRule: "ConditionalRule",
	}
	return s[k]
}

func (k RuleKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *RuleKind) UnmarshalJSON(b []byte) error {
	var kindName string

	if err := json.Unmarshal(b, &kindName); err != nil {
		return err
	}
	switch kindName {
	case "":
		*k = UnknownRule
	case "regex":
		*k = RegexRule
	case "codeSet":
		*k = CodeSetRule
	case "conditional":
		*k = ConditionalRule
	default:
		return fmt.Errorf("unknown RuleKind: %s", kindName)
	}
	return nil
}

// Condition maps a qualifier element's value to the sub-rule applied to
// the target element when that value is present
type Condition struct {
	// Index is the element index of the qualifier
	Index int `json:"index"`
	// Rules maps qualifier values to sub-rules. Sub-rules must be
	// RegexRule or CodeSetRule.
	Rules map[string]*FieldRule `json:"rules"`
}

// FieldRule is one declared check against a single element of a segment
type FieldRule struct {
	// Index is the element index this rule targets (element 0 is the
	// segment code, so data elements start at 1)
	Index int `json:"index"`
	// Label names the element in validation errors, ex: `Sender ID`
	Label string   `json:"label"`
	Kind  RuleKind `json:"kind"`
	// Pattern is the regular expression for RegexRule. Patterns carry
	// their own anchors, matching the implementation guide verbatim.
	Pattern string `json:"pattern,omitempty"`
	// Codes is the allowed value list for CodeSetRule
	Codes []string `json:"codes,omitempty"`
	// Required fails an empty element instead of skipping it. Elements
	// left optional are validated only when a value is present.
	Required bool `json:"required,omitempty"`
	// Message is the error message template; it must contain exactly
	// one %s verb for the offending value
	Message string `json:"message"`
	// Condition is set only for ConditionalRule
	Condition *Condition `json:"condition,omitempty"`

	pattern *regexp.Regexp
}

// SegmentSpec declares the validation schema for one segment code:
// a minimum data element count, and an ordered list of field rules
type SegmentSpec struct {
	// Code is the segment identifier, ex: `NM1`
	Code string `json:"code"`
	// MinFields is the minimum number of data elements (element 0
	// excluded). Segments below this emit one structural error and no
	// field rules run.
	MinFields int `json:"minFields"`
	// Rules are evaluated in order; each failure emits one error, and a
	// failure never suppresses later rules
	Rules []*FieldRule `json:"rules,omitempty"`
}

// SpecError wraps an error with the SegmentSpec and FieldRule it
// originated from
type SpecError struct {
	Spec *SegmentSpec
	Rule *FieldRule
	Err  error
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.Spec != nil && e.Spec.Code != "" {
		_, _ = fmt.Fprintf(&b, "segment: %s ", e.Spec.Code)
	}
	if e.Rule != nil {
		_, _ = fmt.Fprintf(&b, "element: %d ", e.Rule.Index)
		if e.Rule.Label != "" {
			_, _ = fmt.Fprintf(&b, "label: %s ", e.Rule.Label)
		}
	}
	bs := strings.TrimSpace(b.String())
	if bs == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("[%s]: %s", bs, e.Err.Error())
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

func newSpecErr(e error, spec *SegmentSpec, rule *FieldRule) error {
	return &SpecError{Spec: spec, Rule: rule, Err: e}
}

var (
	ErrInvalidSpec        = errors.New("invalid segment spec")
	ErrInvalidSpecPattern = errors.New("invalid rule pattern")
)

// validate checks the spec's internal consistency and compiles every
// rule pattern. It must be called before the spec is used.
func (s *SegmentSpec) validate() error {
	var errs []error
	if s.Code == "" {
		errs = append(errs, newSpecErr(
			fmt.Errorf("%w: code is required", ErrInvalidSpec), s, nil,
		))
	}
	if s.MinFields < 0 {
		errs = append(errs, newSpecErr(
			fmt.Errorf(
				"%w: minFields must be greater than or equal to 0",
				ErrInvalidSpec,
			), s, nil,
		))
	}
	for _, rule := range s.Rules {
		errs = append(errs, s.validateRule(rule, true))
	}
	return errors.Join(errs...)
}

func (s *SegmentSpec) validateRule(rule *FieldRule, allowConditional bool) error {
	var errs []error
	if rule.Index < 1 {
		errs = append(errs, newSpecErr(
			fmt.Errorf(
				"%w: rule index must target a data element",
				ErrInvalidSpec,
			), s, rule,
		))
	}
	switch rule.Kind {
	case RegexRule:
		p, err := regexp.Compile(rule.Pattern)
		if err != nil {
			errs = append(errs, newSpecErr(
				fmt.Errorf("%w: %v", ErrInvalidSpecPattern, err), s, rule,
			))
		}
		rule.pattern = p
	case CodeSetRule:
		if len(rule.Codes) == 0 {
			errs = append(errs, newSpecErr(
				fmt.Errorf(
					"%w: code set rule must have codes", ErrInvalidSpec,
				), s, rule,
			))
		}
	case ConditionalRule:
		if !allowConditional {
			errs = append(errs, newSpecErr(
				fmt.Errorf(
					"%w: conditional sub-rules cannot nest", ErrInvalidSpec,
				), s, rule,
			))
			break
		}
		if rule.Condition == nil || len(rule.Condition.Rules) == 0 {
			errs = append(errs, newSpecErr(
				fmt.Errorf(
					"%w: conditional rule must map qualifier values",
					ErrInvalidSpec,
				), s, rule,
			))
			break
		}
		for _, subRule := range rule.Condition.Rules {
			errs = append(errs, s.validateRule(subRule, false))
		}
	default:
		errs = append(errs, newSpecErr(
			fmt.Errorf("%w: rule kind is required", ErrInvalidSpec), s, rule,
		))
	}
	if rule.Kind != ConditionalRule && rule.Message == "" {
		errs = append(errs, newSpecErr(
			fmt.Errorf("%w: rule must have a message", ErrInvalidSpec),
			s, rule,
		))
	}
	return errors.Join(errs...)
}

// buildSegmentSpecs constructs the full schema table for the given guide
// profile. The table is the single source of truth for validation - code
// sets and patterns are derived from the NY HCS companion guide, element
// positions from the 005010X220A1 segment layouts.
func buildSegmentSpecs(p *Profile) map[string]*SegmentSpec {
	senderIdPattern := "^" + regexp.QuoteMeta(p.SenderIdPrefix)
	specs := []*SegmentSpec{
		{
			Code:      isaSegmentId,
			MinFields: 16,
			Rules: []*FieldRule{
				{
					Index:    isaIndexSenderId,
					Label:    "Sender ID",
					Kind:     RegexRule,
					Pattern:  senderIdPattern,
					Required: true,
					Message: "Invalid ISA sender ID: %s (must start with " +
						p.SenderIdPrefix + ")",
				},
				{
					Index:    isaIndexDate,
					Label:    "Date",
					Kind:     RegexRule,
					Pattern:  `^\d{6}$`,
					Required: true,
					Message:  "Invalid date format: %s (must be YYMMDD)",
				},
				{
					Index:    isaIndexTime,
					Label:    "Time",
					Kind:     RegexRule,
					Pattern:  `^\d{4}$`,
					Required: true,
					Message:  "Invalid time format: %s (must be HHMM)",
				},
			},
		},
		{
			Code:      gsSegmentId,
			MinFields: 8,
			Rules: []*FieldRule{
				{
					Index:    gsIndexFunctionalIdentifierCode,
					Label:    "Functional Identifier",
					Kind:     CodeSetRule,
					Codes:    []string{"BE"},
					Required: true,
					Message:  "Invalid functional identifier: %s (must be BE)",
				},
				{
					Index:    gsIndexSenderCode,
					Label:    "Sender ID",
					Kind:     RegexRule,
					Pattern:  senderIdPattern,
					Required: true,
					Message: "Invalid GS sender ID: %s (must start with " +
						p.SenderIdPrefix + ")",
				},
				{
					Index:    gsIndexDate,
					Label:    "Date",
					Kind:     RegexRule,
					Pattern:  `^\d{6}$`,
					Required: true,
					Message:  "Invalid date format: %s (must be YYMMDD)",
				},
				{
					Index:    gsIndexTime,
					Label:    "Time",
					Kind:     RegexRule,
					Pattern:  `^\d{4}$`,
					Required: true,
					Message:  "Invalid time format: %s (must be HHMM)",
				},
			},
		},
		{
			Code:      stSegmentId,
			MinFields: 3,
			Rules: []*FieldRule{
				{
					Index:    stIndexTransactionSetCode,
					Label:    "Transaction Set ID",
					Kind:     CodeSetRule,
					Codes:    []string{p.TransactionSetCode},
					Required: true,
					Message: "Invalid transaction set identifier: %s (must be " +
						p.TransactionSetCode + ")",
				},
				{
					Index:    stIndexVersionCode,
					Label:    "Version",
					Kind:     CodeSetRule,
					Codes:    []string{p.VersionCode},
					Required: true,
					Message: "Invalid version: %s (must be " +
						p.VersionCode + ")",
				},
			},
		},
		{
			Code:      bgnSegmentId,
			MinFields: 4,
			Rules: []*FieldRule{
				{
					Index:    bgnIndexPurposeCode,
					Label:    "Transaction Set Purpose Code",
					Kind:     RegexRule,
					Pattern:  `^\d{2}$`,
					Required: true,
					Message:  "Invalid transaction set purpose code: %s",
				},
				{
					Index:    bgnIndexDate,
					Label:    "Date",
					Kind:     RegexRule,
					Pattern:  `^\d{8}$`,
					Required: true,
					Message:  "Invalid date format: %s (must be CCYYMMDD)",
				},
				{
					Index:    bgnIndexTime,
					Label:    "Time",
					Kind:     RegexRule,
					Pattern:  `^\d{4}$`,
					Required: true,
					Message:  "Invalid time format: %s (must be HHMM)",
				},
			},
		},
		{
			Code:      n1SegmentId,
			MinFields: 2,
			Rules: []*FieldRule{
				{
					Index: n1IndexEntityIdentifierCode,
					Label: "Entity Identifier Code",
					Kind:  CodeSetRule,
					Codes: []string{
						"41", "40", "ACV", "IAE", "IN", "PE", "PR", "TV",
					},
					Required: true,
					Message:  "Invalid entity identifier code in N1 segment: %s",
				},
				{
					Index:   n1IndexIdCodeQualifier,
					Label:   "Identification Code Qualifier",
					Kind:    CodeSetRule,
					Codes:   []string{"FI"},
					Message: "Invalid identification code qualifier: %s (must be FI)",
				},
				{
					Index:   n1IndexIdCode,
					Label:   "Identification Code",
					Kind:    RegexRule,
					Pattern: `^\d{9}$`,
					Message: "Invalid identification code format: %s (must be 9 digits)",
				},
			},
		},
		{
			Code:      insSegmentId,
			MinFields: 3,
			Rules: []*FieldRule{
				{
					Index:    insIndexMemberIndicator,
					Label:    "Member Indicator",
					Kind:     CodeSetRule,
					Codes:    []string{"Y", "N"},
					Required: true,
					Message:  "Invalid member indicator: %s (must be Y or N)",
				},
				{
					Index: insIndexMaintenanceTypeCode,
					Label: "Maintenance Type Code",
					Kind:  CodeSetRule,
					Codes: []string{
						"001", "002", "021", "024", "025", "030",
					},
					Required: true,
					Message:  "Invalid maintenance type code in INS segment: %s",
				},
			},
		},
		{
			Code:      refSegmentId,
			MinFields: 1,
			Rules: []*FieldRule{
				{
					Index: refIndexReferenceId,
					Kind:  ConditionalRule,
					Condition: &Condition{
						Index: refIndexQualifier,
						Rules: map[string]*FieldRule{
							"0F": {
								Index:    refIndexReferenceId,
								Label:    "SSN",
								Kind:     RegexRule,
								Pattern:  `^\d{9}$`,
								Required: true,
								Message:  "Invalid SSN format in REF segment: %s",
							},
							"1L": {
								Index:    refIndexReferenceId,
								Label:    "Member ID",
								Kind:     RegexRule,
								Pattern:  `^[A-Z0-9]{1,20}$`,
								Required: true,
								Message:  "Invalid member ID format in REF segment: %s",
							},
						},
					},
				},
			},
		},
		{
			Code:      nm1SegmentId,
			MinFields: 8,
			Rules: []*FieldRule{
				{
					Index: nm1IndexEntityIdentifierCode,
					Label: "Entity Identifier Code",
					Kind:  CodeSetRule,
					Codes: []string{
						"IL", "70", "31", "36", "M8", "74", "QD",
					},
					Required: true,
					Message:  "Invalid entity identifier code: %s",
				},
				{
					Index:    nm1IndexEntityTypeQualifier,
					Label:    "Entity Type Qualifier",
					Kind:     CodeSetRule,
					Codes:    []string{"1", "2"},
					Required: true,
					Message:  "Invalid entity type qualifier: %s (must be 1 or 2)",
				},
				{
					Index: nm1IndexIdCodeQualifier,
					Label: "Identification Code Qualifier",
					Kind:  CodeSetRule,
					Codes: []string{
						"34", "XX", "FI", "NI", "PI", "PP", "SV", "XV",
					},
					Required: true,
					Message:  "Invalid identification code qualifier: %s",
				},
				{
					Index: nm1IndexIdCode,
					Kind:  ConditionalRule,
					Condition: &Condition{
						Index: nm1IndexIdCodeQualifier,
						Rules: map[string]*FieldRule{
							"34": {
								Index:    nm1IndexIdCode,
								Label:    "Identification Code",
								Kind:     RegexRule,
								Pattern:  `^\d{9}$`,
								Required: true,
								Message:  "Invalid SSN format: %s (must be 9 digits)",
							},
							"XX": {
								Index:    nm1IndexIdCode,
								Label:    "Identification Code",
								Kind:     RegexRule,
								Pattern:  `^[A-Z0-9]{1,20}$`,
								Required: true,
								Message: "Invalid member ID format: %s " +
									"(must be 1-20 alphanumeric characters)",
							},
						},
					},
				},
			},
		},
		{
			Code:      dmgSegmentId,
			MinFields: 2,
			Rules: []*FieldRule{
				{
					Index:    dmgIndexFormatQualifier,
					Label:    "Date Format",
					Kind:     CodeSetRule,
					Codes:    []string{"D8"},
					Required: true,
					Message:  "Invalid date format qualifier in DMG segment: %s",
				},
				{
					Index:    dmgIndexDate,
					Label:    "Date",
					Kind:     RegexRule,
					Pattern:  `^\d{8}$`,
					Required: true,
					Message:  "Invalid DMG date format: %s (must be CCYYMMDD)",
				},
			},
		},
		{
			Code:      hdSegmentId,
			MinFields: 3,
			Rules: []*FieldRule{
				{
					Index: hdIndexMaintenanceTypeCode,
					Label: "Maintenance Type Code",
					Kind:  CodeSetRule,
					Codes: []string{
						"001", "002", "021", "024", "025", "026", "030", "032",
					},
					Required: true,
					Message:  "Invalid maintenance type code in HD segment: %s",
				},
				{
					Index: hdIndexInsuranceLineCode,
					Label: "Insurance Line Code",
					Kind:  CodeSetRule,
					Codes: []string{
						"DEN", "HLT", "HMO", "PDG", "POS", "PPO", "VIS",
					},
					Required: true,
					Message:  "Invalid insurance line code in HD segment: %s",
				},
			},
		},
		{
			Code:      dtpSegmentId,
			MinFields: 3,
			Rules: []*FieldRule{
				{
					Index:    dtpIndexFormatQualifier,
					Label:    "Date Format",
					Kind:     CodeSetRule,
					Codes:    []string{"D8"},
					Required: true,
					Message:  "Invalid date format qualifier in DTP segment: %s",
				},
				{
					Index:    dtpIndexDate,
					Label:    "Date",
					Kind:     RegexRule,
					Pattern:  `^\d{8}$`,
					Required: true,
					Message:  "Invalid DTP date format: %s (must be CCYYMMDD)",
				},
			},
		},
		{
			Code:      amtSegmentId,
			MinFields: 2,
			Rules: []*FieldRule{
				{
					Index: amtIndexQualifierCode,
					Label: "Amount Qualifier",
					Kind:  CodeSetRule,
					Codes: []string{
						"D2", "P3", "T3", "T4", "T5", "T6", "T7", "T8", "T9",
					},
					Required: true,
					Message:  "Invalid amount qualifier in AMT segment: %s",
				},
				{
					Index:    amtIndexMonetaryAmount,
					Label:    "Monetary Amount",
					Kind:     RegexRule,
					Pattern:  `^\d+(\.\d{2})?$`,
					Required: true,
					Message: "Invalid monetary amount format: %s " +
						"(must be a valid decimal number)",
				},
				{
					Index:   amtIndexCreditDebitFlag,
					Label:   "Credit Debit Flag Code",
					Kind:    CodeSetRule,
					Codes:   []string{"C", "D"},
					Message: "Invalid credit debit flag code: %s (must be C or D)",
				},
			},
		},
		{
			Code:      lxSegmentId,
			MinFields: 1,
			Rules: []*FieldRule{
				{
					Index:    lxIndexAssignedNumber,
					Label:    "Assigned Number",
					Kind:     RegexRule,
					Pattern:  `^\d{1,6}$`,
					Required: true,
					Message: "Invalid assigned number format: %s " +
						"(must be 1-6 digits)",
				},
			},
		},
		{
			Code:      plaSegmentId,
			MinFields: 3,
		},
		{
			Code:      lsSegmentId,
			MinFields: 1,
			Rules: []*FieldRule{
				{
					Index:    lsIndexLoopIdentifierCode,
					Label:    "Loop Identifier",
					Kind:     CodeSetRule,
					Codes:    p.LoopIdentifierCodes,
					Required: true,
					Message:  "Invalid loop identifier in LS segment: %s",
				},
			},
		},
		{
			Code:      leSegmentId,
			MinFields: 1,
			Rules: []*FieldRule{
				{
					Index:    lsIndexLoopIdentifierCode,
					Label:    "Loop Identifier",
					Kind:     CodeSetRule,
					Codes:    p.LoopIdentifierCodes,
					Required: true,
					Message:  "Invalid loop identifier in LE segment: %s",
				},
			},
		},
		{
			Code:      sv1SegmentId,
			MinFields: 6,
			Rules: []*FieldRule{
				{
					Index:    sv1IndexProcedureIdentifier,
					Label:    "Composite Medical Procedure Identifier",
					Kind:     RegexRule,
					Pattern:  `^(HC|IV|ZZ)\d{5}$`,
					Required: true,
					Message:  "Invalid procedure identifier format: %s",
				},
				{
					Index:    sv1IndexMonetaryAmount,
					Label:    "Monetary Amount",
					Kind:     RegexRule,
					Pattern:  `^\d+(\.\d{2})?$`,
					Required: true,
					Message: "Invalid monetary amount format: %s " +
						"(must be a valid decimal number)",
				},
				{
					Index:    sv1IndexUnitBasisCode,
					Label:    "Unit Basis For Measurement Code",
					Kind:     CodeSetRule,
					Codes:    []string{"DA", "F2", "MJ", "UN"},
					Required: true,
					Message:  "Invalid unit basis code: %s",
				},
				{
					Index:    sv1IndexQuantity,
					Label:    "Quantity",
					Kind:     RegexRule,
					Pattern:  `^\d+(\.\d{1,2})?$`,
					Required: true,
					Message: "Invalid quantity format: %s " +
						"(must be a valid decimal number)",
				},
				{
					Index:    sv1IndexFacilityCode,
					Label:    "Facility Code Value",
					Kind:     RegexRule,
					Pattern:  `^(1[1-9]|[2-9]\d)$`,
					Required: true,
					Message:  "Invalid facility code: %s",
				},
				{
					Index:    sv1IndexServiceTypeCode,
					Label:    "Service Type Code",
					Kind:     RegexRule,
					Pattern:  `^[1-9A-Z]$`,
					Required: true,
					Message:  "Invalid service type code: %s",
				},
				{
					Index:    sv1IndexDiagnosisPointer,
					Label:    "Diagnosis Code Pointer",
					Kind:     RegexRule,
					Pattern:  `^[1-9]$`,
					Required: true,
					Message: "Invalid diagnosis code pointer: %s " +
						"(must be 1-9)",
				},
			},
		},
		{
			Code:      sv8SegmentId,
			MinFields: 4,
			Rules: []*FieldRule{
				{
					Index:    sv8IndexProcedureIdentifier,
					Label:    "Composite Medical Procedure Identifier",
					Kind:     RegexRule,
					Pattern:  `^(HC|IV|ZZ)\d{5}$`,
					Required: true,
					Message:  "Invalid procedure identifier format: %s",
				},
				{
					Index:    sv8IndexMonetaryAmount,
					Label:    "Monetary Amount",
					Kind:     RegexRule,
					Pattern:  `^\d+(\.\d{2})?$`,
					Required: true,
					Message: "Invalid monetary amount format: %s " +
						"(must be a valid decimal number)",
				},
				{
					Index:    sv8IndexFacilityCode,
					Label:    "Facility Code Value",
					Kind:     RegexRule,
					Pattern:  `^(1[1-9]|[2-9]\d)$`,
					Required: true,
					Message:  "Invalid facility code: %s",
				},
				{
					Index:    sv8IndexServiceTypeCode,
					Label:    "Service Type Code",
					Kind:     RegexRule,
					Pattern:  `^[1-9A-Z]$`,
					Required: true,
					Message:  "Invalid service type code: %s",
				},
				{
					Index:    sv8IndexDiagnosisPointer,
					Label:    "Diagnosis Code Pointer",
					Kind:     RegexRule,
					Pattern:  `^[1-9]$`,
					Required: true,
					Message: "Invalid diagnosis code pointer: %s " +
						"(must be 1-9)",
				},
			},
		},
	}

	table := make(map[string]*SegmentSpec, len(specs))
	for _, s := range specs {
		table[s.Code] = s
	}
	return table
}

// defaultSegmentSpecs is the schema table for the embedded default
// profile, validated once at startup
var defaultSegmentSpecs map[string]*SegmentSpec

// LookupSegmentSpec returns the default-profile schema for the given
// segment code, or nil if the code is unknown. Unknown codes are valid
// at the model level - they pass through validation untouched.
func LookupSegmentSpec(segmentCode string) *SegmentSpec {
	return defaultSegmentSpecs[segmentCode]
}

func validateSegmentSpecs(table map[string]*SegmentSpec) error {
	var errs []error
	for _, s := range table {
		errs = append(errs, s.validate())
	}
	return errors.Join(errs...)
}
