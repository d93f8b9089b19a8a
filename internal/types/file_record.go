package types

// MFT File Record Layout

const (
	// FileRecordHeaderSize is the minimum buffer length holding a complete NTFS 3.1 record header.
	FileRecordHeaderSize = 48

	FileRecordSignatureOffset      = 0x00
	FileRecordUSAOffsetOffset      = 0x04
	FileRecordUSACountOffset       = 0x06
	FileRecordLSNOffset            = 0x08
	FileRecordSequenceOffset       = 0x10
	FileRecordHardLinkOffset       = 0x12
	FileRecordFirstAttributeOffset = 0x14
	FileRecordFlagsOffset          = 0x16
	FileRecordUsedSizeOffset       = 0x18
	FileRecordAllocatedSizeOffset  = 0x1C
	FileRecordBaseReferenceOffset  = 0x20
	FileRecordNextAttrIDOffset     = 0x28
	FileRecordNumberOffset         = 0x2C
)

// FileRecordSignature marks a file record in use by the MFT (independent of the in-use flag).
var FileRecordSignature = []byte("FILE")

// FileRecordFlags holds the record header flag bits.
type FileRecordFlags uint16

const (
	// FileRecordInUse is set while the record describes a live file.
	// A clear bit is the only thing marking a record as deleted.
	FileRecordInUse FileRecordFlags = 0x0001

	// FileRecordIsDirectory is set for directory records.
	FileRecordIsDirectory FileRecordFlags = 0x0002
)

// FileRecordHeader is the decoded fixed header of one MFT record.
type FileRecordHeader struct {
	Signature string

	// Update sequence array location. Used only when fix-ups are applied.
	UpdateSequenceOffset uint16
	UpdateSequenceCount  uint16

	LogFileSequenceNumber uint64
	SequenceNumber        uint16
	HardLinkCount         uint16
	FirstAttributeOffset  uint16
	Flags                 FileRecordFlags
	UsedSize              uint32
	AllocatedSize         uint32
	BaseRecordReference   uint64
	NextAttributeID       uint16
	RecordNumber          uint32
}

// InUse reports whether the in-use flag is set.
func (h FileRecordHeader) InUse() bool {
	return h.Flags&FileRecordInUse != 0
}

// IsDirectory reports whether the directory flag is set.
func (h FileRecordHeader) IsDirectory() bool {
	return h.Flags&FileRecordIsDirectory != 0
}

// FileReference is a 48-bit record number plus a 16-bit sequence number.
type FileReference uint64

// RecordNumber returns the MFT index part of the reference.
func (r FileReference) RecordNumber() uint64 {
	return uint64(r) & 0x0000FFFFFFFFFFFF
}

// Sequence returns the sequence number part of the reference.
func (r FileReference) Sequence() uint16 {
	return uint16(uint64(r) >> 48)
}
