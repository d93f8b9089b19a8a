package mft

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// ExtractTimestamps returns the creation and modification ticks of the record.
// $STANDARD_INFORMATION is preferred; the first $FILE_NAME is used when it is missing.
func ExtractTimestamps(buf []byte, header types.FileRecordHeader) (types.Timestamps, error) {
	if attr, err := FindAttribute(buf, header, types.AttributeStandardInformation); err == nil {
		if value, ok := residentValue(buf, attr); ok && len(value) >= types.StandardInfoModifiedOffset+8 {
			le := binary.LittleEndian
			return types.Timestamps{
				Created:  types.FileTime(le.Uint64(value[types.StandardInfoCreatedOffset:])),
				Modified: types.FileTime(le.Uint64(value[types.StandardInfoModifiedOffset:])),
			}, nil
		}
	}

	name, err := ExtractFileName(buf, header)
	if err != nil {
		return types.Timestamps{}, fmt.Errorf("timestamps: %w", err)
	}
	return types.Timestamps{Created: name.Created, Modified: name.Modified}, nil
}
