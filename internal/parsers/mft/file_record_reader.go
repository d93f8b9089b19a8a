package mft

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// DecodeFileRecordHeader parses the fixed header of one MFT record.
// A short buffer or a signature other than FILE is reported as types.ErrBadSignature;
// the in-use flag is decoded but not checked here.
func DecodeFileRecordHeader(buf []byte) (types.FileRecordHeader, error) {
	if len(buf) < types.FileRecordHeaderSize {
		return types.FileRecordHeader{}, fmt.Errorf("%w: record buffer is %d bytes", types.ErrBadSignature, len(buf))
	}

	signature := buf[types.FileRecordSignatureOffset : types.FileRecordSignatureOffset+4]
	if !bytes.Equal(signature, types.FileRecordSignature) {
		return types.FileRecordHeader{}, fmt.Errorf("%w: %q", types.ErrBadSignature, signature)
	}

	le := binary.LittleEndian
	return types.FileRecordHeader{
		Signature:             string(signature),
		UpdateSequenceOffset:  le.Uint16(buf[types.FileRecordUSAOffsetOffset:]),
		UpdateSequenceCount:   le.Uint16(buf[types.FileRecordUSACountOffset:]),
		LogFileSequenceNumber: le.Uint64(buf[types.FileRecordLSNOffset:]),
		SequenceNumber:        le.Uint16(buf[types.FileRecordSequenceOffset:]),
		HardLinkCount:         le.Uint16(buf[types.FileRecordHardLinkOffset:]),
		FirstAttributeOffset:  le.Uint16(buf[types.FileRecordFirstAttributeOffset:]),
		Flags:                 types.FileRecordFlags(le.Uint16(buf[types.FileRecordFlagsOffset:])),
		UsedSize:              le.Uint32(buf[types.FileRecordUsedSizeOffset:]),
		AllocatedSize:         le.Uint32(buf[types.FileRecordAllocatedSizeOffset:]),
		BaseRecordReference:   le.Uint64(buf[types.FileRecordBaseReferenceOffset:]),
		NextAttributeID:       le.Uint16(buf[types.FileRecordNextAttrIDOffset:]),
		RecordNumber:          le.Uint32(buf[types.FileRecordNumberOffset:]),
	}, nil
}
