package mft

import (
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// FindDataAttribute returns the first $DATA attribute of the record.
func FindDataAttribute(buf []byte, header types.FileRecordHeader) (types.AttributeHeader, error) {
	attr, err := FindAttribute(buf, header, types.AttributeData)
	if err != nil {
		return types.AttributeHeader{}, fmt.Errorf("$DATA: %w", err)
	}
	return attr, nil
}

// ExtractFileSize returns the logical size of the first $DATA attribute: the value length
// when resident, the real size field when non-resident.
func ExtractFileSize(buf []byte, header types.FileRecordHeader) (uint64, error) {
	attr, err := FindDataAttribute(buf, header)
	if err != nil {
		return 0, err
	}
	return DataSize(attr), nil
}

// DataSize returns the logical size described by a $DATA attribute header.
func DataSize(attr types.AttributeHeader) uint64 {
	if attr.NonResident {
		return attr.RealSize
	}
	return uint64(attr.ValueLength)
}
