package edi834

import (
	"encoding/json"
	"testing"
)

func TestParseSegment(t *testing.T) {
	segment, ok := ParseSegment("NM1*IL*1*DOE*JOHN****34*123456789~", 9)
	assertEqual(t, ok, true)
	assertEqual(t, segment.Code, "NM1")
	assertEqual(t, segment.LineNumber, 9)
	assertEqual(t, segment.DataFieldCount(), 9)
	assertEqual(t, segment.Field(nm1IndexEntityIdentifierCode), "IL")
	assertEqual(t, segment.Field(nm1IndexIdCodeQualifier), "34")
	assertEqual(t, segment.Field(nm1IndexIdCode), "123456789")
}

func TestParseSegmentTrimsWhitespaceAndTerminator(t *testing.T) {
	segment, ok := ParseSegment("  LS*2700~  \r", 15)
	assertEqual(t, ok, true)
	assertEqual(t, segment.Code, "LS")
	assertEqual(t, segment.DataFieldCount(), 1)
	assertEqual(t, segment.Field(lsIndexLoopIdentifierCode), "2700")
	assertEqual(t, segment.String(), "LS*2700~")
}

func TestParseSegmentWithoutTerminator(t *testing.T) {
	segment, ok := ParseSegment("LX*1", 13)
	assertEqual(t, ok, true)
	assertEqual(t, segment.Code, "LX")
	assertEqual(t, segment.Field(lxIndexAssignedNumber), "1")
}

func TestParseSegmentEmptyLine(t *testing.T) {
	for _, line := range []string{"", "   ", "~", "  ~  "} {
		_, ok := ParseSegment(line, 1)
		assertEqual(t, ok, false)
	}
}

func TestParseSegmentTwoCharacterCode(t *testing.T) {
	segment, ok := ParseSegment("GS*BE*NYHCS0001~", 2)
	assertEqual(t, ok, true)
	assertEqual(t, segment.Code, "GS")
	assertEqual(t, segment.Field(gsIndexFunctionalIdentifierCode), "BE")
}

func TestSegmentFieldOutOfRange(t *testing.T) {
	segment, ok := ParseSegment("DMG*D8*19800515~", 10)
	assertEqual(t, ok, true)
	assertEqual(t, segment.Field(5), "")
	assertEqual(t, segment.Field(-1), "")
}

func TestSegmentFieldsCopy(t *testing.T) {
	segment, ok := ParseSegment("HD*021**HLT~", 11)
	assertEqual(t, ok, true)
	fields := segment.Fields()
	assertEqual(t, len(fields), 4)
	fields[0] = "XX"
	assertEqual(t, segment.Code, "HD")
	assertEqual(t, segment.Field(0), "HD")
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{
		SegmentCode: "ISA",
		FieldLabel:  "Sender ID",
		Message:     "Invalid ISA sender ID: SENDERID (must start with NY)",
		LineNumber:  1,
		Category:    Format,
	}
	assertEqual(
		t,
		e.String(),
		"Line 1: ISA - Sender ID: Invalid ISA sender ID: SENDERID "+
			"(must start with NY)",
	)
}

func TestErrorCategoryJSON(t *testing.T) {
	categories := []ErrorCategory{
		Structural,
		Format,
		CodeValue,
		ConditionalFormat,
		Presence,
		System,
	}
	for _, category := range categories {
		data, err := json.Marshal(category)
		assertNoError(t, err)
		var decoded ErrorCategory
		assertNoError(t, json.Unmarshal(data, &decoded))
		assertEqual(t, decoded, category)
	}

	var unknown ErrorCategory
	err := unknown.UnmarshalJSON([]byte(`"bogus"`))
	if err == nil {
		t.Errorf("expected an error for unknown category name")
	}
}
