package testutil

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

const (
	recordUSAOffset       = 0x30
	recordFirstAttrOffset = 0x38
)

// RecordBuilder assembles a synthetic MFT file record attribute by attribute.
type RecordBuilder struct {
	size        int
	flags       types.FileRecordFlags
	sequence    uint16
	number      uint32
	signature   string
	attrs       [][]byte
	nextID      uint16
	fixupSector int
	omitEnd     bool
}

// NewRecord starts a record of size bytes with the given header flags.
func NewRecord(size int, flags types.FileRecordFlags) *RecordBuilder {
	return &RecordBuilder{size: size, flags: flags, sequence: 1, signature: "FILE"}
}

// WithNumber sets the record number stored in the header.
func (b *RecordBuilder) WithNumber(n uint32) *RecordBuilder {
	b.number = n
	return b
}

// WithSequence sets the header sequence number.
func (b *RecordBuilder) WithSequence(seq uint16) *RecordBuilder {
	b.sequence = seq
	return b
}

// WithSignature overrides the 4-byte record signature.
func (b *RecordBuilder) WithSignature(sig string) *RecordBuilder {
	b.signature = sig
	return b
}

// WithFixups protects the record with an update sequence array for the given sector size.
func (b *RecordBuilder) WithFixups(bytesPerSector int) *RecordBuilder {
	b.fixupSector = bytesPerSector
	return b
}

// WithoutEndMarker leaves the attribute list unterminated.
func (b *RecordBuilder) WithoutEndMarker() *RecordBuilder {
	b.omitEnd = true
	return b
}

// AddRaw appends pre-encoded attribute bytes verbatim.
func (b *RecordBuilder) AddRaw(attr []byte) *RecordBuilder {
	b.attrs = append(b.attrs, attr)
	return b
}

// AddStandardInformation appends a resident $STANDARD_INFORMATION attribute.
func (b *RecordBuilder) AddStandardInformation(created, modified uint64) *RecordBuilder {
	value := make([]byte, 0x48)
	le := binary.LittleEndian
	le.PutUint64(value[types.StandardInfoCreatedOffset:], created)
	le.PutUint64(value[types.StandardInfoModifiedOffset:], modified)
	le.PutUint64(value[types.StandardInfoMFTModifiedOffset:], modified)
	le.PutUint64(value[types.StandardInfoAccessedOffset:], modified)
	return b.AddResident(types.AttributeStandardInformation, value, 0)
}

// AddFileName appends a resident $FILE_NAME attribute.
func (b *RecordBuilder) AddFileName(name string, namespace types.FileNameNamespace, parent uint64) *RecordBuilder {
	chars := utf16.Encode([]rune(name))
	value := make([]byte, types.FileNameCharactersOffset+2*len(chars))
	le := binary.LittleEndian
	le.PutUint64(value[types.FileNameParentOffset:], parent)
	value[types.FileNameLengthOffset] = byte(len(chars))
	value[types.FileNameNamespaceOffset] = byte(namespace)
	for i, c := range chars {
		le.PutUint16(value[types.FileNameCharactersOffset+2*i:], c)
	}
	return b.AddResident(types.AttributeFileName, value, 0)
}

// AddObjectID appends a resident $OBJECT_ID attribute holding guid in on-disk order.
func (b *RecordBuilder) AddObjectID(guid [16]byte) *RecordBuilder {
	return b.AddResident(types.AttributeObjectID, guid[:], 0)
}

// AddResidentData appends a resident unnamed $DATA attribute.
func (b *RecordBuilder) AddResidentData(data []byte) *RecordBuilder {
	return b.AddResident(types.AttributeData, data, 0)
}

// AddResident appends a resident attribute of any type.
func (b *RecordBuilder) AddResident(attrType types.AttributeType, value []byte, flags types.AttributeFlags) *RecordBuilder {
	length := align8(types.ResidentHeaderSize + len(value))
	attr := make([]byte, length)
	le := binary.LittleEndian
	le.PutUint32(attr[types.AttrTypeOffset:], uint32(attrType))
	le.PutUint32(attr[types.AttrLengthOffset:], uint32(length))
	attr[types.AttrNonResidentOffset] = 0
	le.PutUint16(attr[types.AttrNameOffsetOffset:], types.ResidentHeaderSize)
	le.PutUint16(attr[types.AttrFlagsOffset:], uint16(flags))
	le.PutUint16(attr[types.AttrIDOffset:], b.nextID)
	le.PutUint32(attr[types.AttrValueLengthOffset:], uint32(len(value)))
	le.PutUint16(attr[types.AttrValueOffsetOffset:], types.ResidentHeaderSize)
	copy(attr[types.ResidentHeaderSize:], value)
	b.nextID++
	return b.AddRaw(attr)
}

// AddNonResidentData appends a non-resident unnamed $DATA attribute with an encoded runlist.
func (b *RecordBuilder) AddNonResidentData(realSize uint64, runlist []byte, flags types.AttributeFlags) *RecordBuilder {
	length := align8(types.NonResidentHeaderSize + len(runlist))
	attr := make([]byte, length)
	le := binary.LittleEndian
	le.PutUint32(attr[types.AttrTypeOffset:], uint32(types.AttributeData))
	le.PutUint32(attr[types.AttrLengthOffset:], uint32(length))
	attr[types.AttrNonResidentOffset] = 1
	le.PutUint16(attr[types.AttrNameOffsetOffset:], types.NonResidentHeaderSize)
	le.PutUint16(attr[types.AttrFlagsOffset:], uint16(flags))
	le.PutUint16(attr[types.AttrIDOffset:], b.nextID)
	le.PutUint16(attr[types.AttrRunListOffsetOffset:], types.NonResidentHeaderSize)
	allocated := align8(int(realSize))
	le.PutUint64(attr[types.AttrAllocatedSizeOffset:], uint64(allocated))
	le.PutUint64(attr[types.AttrRealSizeOffset:], realSize)
	le.PutUint64(attr[types.AttrInitializedSizeOffset:], realSize)
	copy(attr[types.NonResidentHeaderSize:], runlist)
	b.nextID++
	return b.AddRaw(attr)
}

// Bytes renders the record. Attributes that do not fit are cut off at the record boundary.
func (b *RecordBuilder) Bytes() []byte {
	buf := make([]byte, b.size)
	le := binary.LittleEndian
	copy(buf[0:4], b.signature)

	usaCount := 0
	if b.fixupSector > 0 {
		usaCount = b.size/b.fixupSector + 1
	}
	le.PutUint16(buf[types.FileRecordUSAOffsetOffset:], recordUSAOffset)
	le.PutUint16(buf[types.FileRecordUSACountOffset:], uint16(usaCount))
	le.PutUint16(buf[types.FileRecordSequenceOffset:], b.sequence)
	le.PutUint16(buf[types.FileRecordHardLinkOffset:], 1)
	le.PutUint16(buf[types.FileRecordFirstAttributeOffset:], recordFirstAttrOffset)
	le.PutUint16(buf[types.FileRecordFlagsOffset:], uint16(b.flags))
	le.PutUint32(buf[types.FileRecordAllocatedSizeOffset:], uint32(b.size))
	le.PutUint16(buf[types.FileRecordNextAttrIDOffset:], b.nextID)
	le.PutUint32(buf[types.FileRecordNumberOffset:], b.number)

	pos := recordFirstAttrOffset
	for _, attr := range b.attrs {
		pos += copy(buf[pos:], attr)
	}
	if !b.omitEnd && pos+8 <= len(buf) {
		le.PutUint32(buf[pos:], uint32(types.AttributeEnd))
		pos += 8
	}
	used := pos
	if used > len(buf) {
		used = len(buf)
	}
	le.PutUint32(buf[types.FileRecordUsedSizeOffset:], uint32(used))

	if b.fixupSector > 0 {
		protect(buf, b.fixupSector, usaCount)
	}
	return buf
}

// protect moves the last two bytes of each sector into the update sequence array and
// stamps the sequence number in their place, as NTFS does on write.
func protect(buf []byte, sectorSize, usaCount int) {
	const usn = 0x0001
	le := binary.LittleEndian
	le.PutUint16(buf[recordUSAOffset:], usn)
	for i := 1; i < usaCount; i++ {
		end := i*sectorSize - 2
		if end+2 > len(buf) {
			break
		}
		copy(buf[recordUSAOffset+2*i:recordUSAOffset+2*i+2], buf[end:end+2])
		le.PutUint16(buf[end:], usn)
	}
}

func align8(n int) int {
	return (n + 7) &^ 7
}
