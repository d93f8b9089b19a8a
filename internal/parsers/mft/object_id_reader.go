package mft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// ExtractObjectID returns the object GUID stored in the record's $OBJECT_ID attribute.
func ExtractObjectID(buf []byte, header types.FileRecordHeader) (uuid.UUID, error) {
	attr, err := FindAttribute(buf, header, types.AttributeObjectID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("$OBJECT_ID: %w", err)
	}
	value, ok := residentValue(buf, attr)
	if !ok || len(value) < types.ObjectIDLength {
		return uuid.Nil, fmt.Errorf("$OBJECT_ID: %w", types.ErrTruncated)
	}
	return GUIDToUUID(value[:types.ObjectIDLength])
}

// GUIDToUUID converts a Windows GUID, whose first three fields are little-endian,
// into an RFC 4122 UUID.
func GUIDToUUID(guid []byte) (uuid.UUID, error) {
	if len(guid) != types.ObjectIDLength {
		return uuid.Nil, fmt.Errorf("GUID must be %d bytes, got %d", types.ObjectIDLength, len(guid))
	}
	b := make([]byte, types.ObjectIDLength)
	b[0], b[1], b[2], b[3] = guid[3], guid[2], guid[1], guid[0]
	b[4], b[5] = guid[5], guid[4]
	b[6], b[7] = guid[7], guid[6]
	copy(b[8:], guid[8:])
	return uuid.FromBytes(b)
}
