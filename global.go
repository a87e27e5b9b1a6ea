package edi834

const (
	isaSegmentId = "ISA"
	gsSegmentId  = "GS"
	stSegmentId  = "ST"
	bgnSegmentId = "BGN"
	n1SegmentId  = "N1"
	insSegmentId = "INS"
	refSegmentId = "REF"
	nm1SegmentId = "NM1"
	dmgSegmentId = "DMG"
	hdSegmentId  = "HD"
	dtpSegmentId = "DTP"
	amtSegmentId = "AMT"
	lxSegmentId  = "LX"
	plaSegmentId = "PLA"
	lsSegmentId  = "LS"
	leSegmentId  = "LE"
	sv1SegmentId = "SV1"
	sv8SegmentId = "SV8"

	elementSeparator  = "*"
	segmentTerminator = "~"
)

const (
	isaIndexSegmentId = iota
	isaIndexAuthInfoQualifier
	isaIndexAuthInfo
	isaIndexSecurityInfoQualifier
	isaIndexSecurityInfo
	isaIndexSenderIdQualifier
	isaIndexSenderId
	isaIndexReceiverIdQualifier
	isaIndexReceiverId
	isaIndexDate
	isaIndexTime
	isaIndexRepetitionSeparator
	isaIndexVersion
	isaIndexControlNumber
	isaIndexAckRequested
	isaIndexUsageIndicator
	isaIndexComponentElementSeparator
)

const (
	gsIndexFunctionalIdentifierCode = iota + 1
	gsIndexSenderCode
	gsIndexReceiverCode
	gsIndexDate
	gsIndexTime
	gsIndexControlNumber
	gsIndexResponsibleAgencyCode
	gsIndexVersion
)

const (
	stIndexTransactionSetCode = iota + 1
	stIndexControlNumber
	stIndexVersionCode
)

const (
	bgnIndexPurposeCode = iota + 1
	bgnIndexReferenceId
	bgnIndexDate
	bgnIndexTime
)

const (
	n1IndexEntityIdentifierCode = iota + 1
	n1IndexName
	n1IndexIdCodeQualifier
	n1IndexIdCode
)

const (
	insIndexMemberIndicator = iota + 1
	insIndexRelationshipCode
	insIndexMaintenanceTypeCode
)

const (
	refIndexQualifier = iota + 1
	refIndexReferenceId
)

const (
	nm1IndexEntityIdentifierCode = iota + 1
	nm1IndexEntityTypeQualifier
	nm1IndexNameLast
	nm1IndexNameFirst
	nm1IndexNameMiddle
	nm1IndexNamePrefix
	nm1IndexNameSuffix
	nm1IndexIdCodeQualifier
	nm1IndexIdCode
)

const (
	dmgIndexFormatQualifier = iota + 1
	dmgIndexDate
)

const (
	hdIndexMaintenanceTypeCode = iota + 1
	hdIndexMaintenanceReasonCode
	hdIndexInsuranceLineCode
)

const (
	dtpIndexDateQualifier = iota + 1
	dtpIndexFormatQualifier
	dtpIndexDate
)

const (
	amtIndexQualifierCode = iota + 1
	amtIndexMonetaryAmount
	amtIndexCreditDebitFlag
)

const (
	lxIndexAssignedNumber = iota + 1
)

const (
	lsIndexLoopIdentifierCode = iota + 1
)

const (
	sv1IndexProcedureIdentifier = iota + 1
	sv1IndexMonetaryAmount
	sv1IndexUnitBasisCode
	sv1IndexQuantity
	sv1IndexFacilityCode
	sv1IndexServiceTypeCode
	sv1IndexDiagnosisPointer
)

const (
	sv8IndexProcedureIdentifier = iota + 1
	sv8IndexMonetaryAmount
	sv8IndexFacilityCode
	sv8IndexServiceTypeCode
	sv8IndexDiagnosisPointer
)

// requiredSegmentIds is the fixed set of segment codes the NY HCS
// implementation guide requires in every 834 file. Presence errors are
// emitted in this order.
var requiredSegmentIds = []string{
	isaSegmentId,
	gsSegmentId,
	stSegmentId,
	bgnSegmentId,
	n1SegmentId,
	insSegmentId,
	refSegmentId,
	nm1SegmentId,
	dmgSegmentId,
	hdSegmentId,
	dtpSegmentId,
	amtSegmentId,
	lxSegmentId,
	plaSegmentId,
	lsSegmentId,
	leSegmentId,
}

// loopIdentifierCodes are the member reporting category loop IDs the
// guide allows in LS/LE envelopes
var loopIdentifierCodes = []string{
	"2700", "2750", "2760", "2770", "2780", "2790",
}
