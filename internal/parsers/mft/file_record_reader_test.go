package mft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

func TestDecodeFileRecordHeader(t *testing.T) {
	buf := testutil.NewRecord(1024, types.FileRecordIsDirectory).
		WithNumber(77).
		WithSequence(9).
		AddFileName("dir", types.NamespaceWin32, 5).
		Bytes()

	header, err := DecodeFileRecordHeader(buf)
	require.NoError(t, err)

	assert.Equal(t, uint16(9), header.SequenceNumber)
	assert.Equal(t, uint32(77), header.RecordNumber)
	assert.Equal(t, uint16(0x38), header.FirstAttributeOffset)
	assert.Equal(t, uint32(1024), header.AllocatedSize)
	assert.True(t, header.IsDirectory())
	assert.False(t, header.InUse())
}

func TestDecodeFileRecordHeader_InUse(t *testing.T) {
	buf := testutil.NewRecord(1024, types.FileRecordInUse).Bytes()

	header, err := DecodeFileRecordHeader(buf)
	require.NoError(t, err)
	assert.True(t, header.InUse())
	assert.False(t, header.IsDirectory())
}

func TestDecodeFileRecordHeader_BadSignature(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"short", []byte("FILE")},
		{"baad", testutil.NewRecord(1024, 0).WithSignature("BAAD").Bytes()},
		{"zeroed", make([]byte, 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFileRecordHeader(tt.buf)
			assert.ErrorIs(t, err, types.ErrBadSignature)
		})
	}
}
