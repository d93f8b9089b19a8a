package mft

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// UpdateSequenceStride is the span covered by one update sequence entry. NTFS uses
// 512 bytes regardless of the physical sector size.
const UpdateSequenceStride = 512

// ApplyFixups restores the bytes NTFS replaced with the update sequence number at the end
// of every stride. The buffer is verified first and left untouched on a mismatch.
func ApplyFixups(buf []byte, header types.FileRecordHeader) error {
	count := int(header.UpdateSequenceCount)
	if count < 2 {
		return nil
	}

	offset := int(header.UpdateSequenceOffset)
	if offset+2*count > len(buf) {
		return fmt.Errorf("%w: array of %d entries at %d overruns record", types.ErrFixupMismatch, count, offset)
	}

	le := binary.LittleEndian
	usn := le.Uint16(buf[offset:])

	strides := 0
	for i := 1; i < count; i++ {
		end := i*UpdateSequenceStride - 2
		if end+2 > len(buf) {
			break
		}
		if le.Uint16(buf[end:]) != usn {
			return fmt.Errorf("%w: stride %d holds 0x%04x, want 0x%04x", types.ErrFixupMismatch, i, le.Uint16(buf[end:]), usn)
		}
		strides = i
	}

	for i := 1; i <= strides; i++ {
		end := i*UpdateSequenceStride - 2
		copy(buf[end:end+2], buf[offset+2*i:offset+2*i+2])
	}
	return nil
}
