package types

// AttributeType is the 32-bit type code that opens every attribute header.
type AttributeType uint32

const (
	AttributeStandardInformation AttributeType = 0x10
	AttributeAttributeList       AttributeType = 0x20
	AttributeFileName            AttributeType = 0x30
	AttributeObjectID            AttributeType = 0x40
	AttributeSecurityDescriptor  AttributeType = 0x50
	AttributeVolumeName          AttributeType = 0x60
	AttributeVolumeInformation   AttributeType = 0x70
	AttributeData                AttributeType = 0x80
	AttributeIndexRoot           AttributeType = 0x90
	AttributeIndexAllocation     AttributeType = 0xA0
	AttributeBitmap              AttributeType = 0xB0
	AttributeReparsePoint        AttributeType = 0xC0
	AttributeEAInformation       AttributeType = 0xD0
	AttributeEA                  AttributeType = 0xE0
	AttributeLoggedUtilityStream AttributeType = 0x100

	// AttributeEnd terminates the attribute list of a record.
	AttributeEnd AttributeType = 0xFFFFFFFF
)

// String returns the $NAME of well-known attribute types.
func (t AttributeType) String() string {
	switch t {
	case AttributeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeFileName:
		return "$FILE_NAME"
	case AttributeObjectID:
		return "$OBJECT_ID"
	case AttributeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeVolumeName:
		return "$VOLUME_NAME"
	case AttributeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeData:
		return "$DATA"
	case AttributeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeBitmap:
		return "$BITMAP"
	case AttributeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeEAInformation:
		return "$EA_INFORMATION"
	case AttributeEA:
		return "$EA"
	case AttributeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	case AttributeEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Attribute header field offsets, relative to the start of the attribute.
const (
	AttrTypeOffset        = 0x00
	AttrLengthOffset      = 0x04
	AttrNonResidentOffset = 0x08
	AttrNameLengthOffset  = 0x09
	AttrNameOffsetOffset  = 0x0A
	AttrFlagsOffset       = 0x0C
	AttrIDOffset          = 0x0E

	// Resident form
	AttrValueLengthOffset = 0x10
	AttrValueOffsetOffset = 0x14

	// Non-resident form
	AttrStartVCNOffset        = 0x10
	AttrEndVCNOffset          = 0x18
	AttrRunListOffsetOffset   = 0x20
	AttrCompressionUnitOffset = 0x22
	AttrAllocatedSizeOffset   = 0x28
	AttrRealSizeOffset        = 0x30
	AttrInitializedSizeOffset = 0x38

	// AttributeCommonHeaderSize covers the fields shared by both forms.
	AttributeCommonHeaderSize = 0x10
	// ResidentHeaderSize is the smallest valid resident attribute header.
	ResidentHeaderSize = 0x18
	// NonResidentHeaderSize is the smallest valid non-resident attribute header.
	NonResidentHeaderSize = 0x40
)

// AttributeFlags are the per-attribute flag bits.
type AttributeFlags uint16

const (
	AttributeFlagCompressed AttributeFlags = 0x0001
	AttributeFlagEncrypted  AttributeFlags = 0x4000
	AttributeFlagSparse     AttributeFlags = 0x8000
)

// AttributeHeader is one decoded attribute header, either resident or non-resident.
type AttributeHeader struct {
	// Offset is the position of the header within the record buffer.
	Offset int

	Type        AttributeType
	Length      uint32
	NonResident bool
	NameLength  uint8
	NameOffset  uint16
	Flags       AttributeFlags
	ID          uint16

	// Resident only
	ValueLength uint32
	ValueOffset uint16

	// Non-resident only
	StartVCN        uint64
	EndVCN          uint64
	RunListOffset   uint16
	CompressionUnit uint16
	AllocatedSize   uint64
	RealSize        uint64
	InitializedSize uint64
}

// End returns the offset one past the last byte of the attribute.
func (a AttributeHeader) End() int {
	return a.Offset + int(a.Length)
}

// ValueStart returns the absolute offset of a resident attribute's value.
func (a AttributeHeader) ValueStart() int {
	return a.Offset + int(a.ValueOffset)
}

// IsNamed reports whether the attribute carries a stream name.
func (a AttributeHeader) IsNamed() bool {
	return a.NameLength > 0
}

// WalkEnd tags how an attribute walk or runlist decode finished.
type WalkEnd int

const (
	// WalkInProgress means the walk has not finished yet.
	WalkInProgress WalkEnd = iota
	// WalkNormal means an end marker was reached.
	WalkNormal
	// WalkTruncated means malformed or overrunning bytes ended the walk early.
	WalkTruncated
)

func (w WalkEnd) String() string {
	switch w {
	case WalkInProgress:
		return "in-progress"
	case WalkNormal:
		return "normal"
	case WalkTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}
