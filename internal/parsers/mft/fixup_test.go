package mft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

func TestApplyFixups(t *testing.T) {
	name := "a-file-name-long-enough-to-matter.txt"
	protected := testutil.NewRecord(1024, 0).
		WithFixups(UpdateSequenceStride).
		AddFileName(name, types.NamespaceWin32, 5).
		Bytes()
	header := decodeHeader(t, protected)
	require.Equal(t, uint16(3), header.UpdateSequenceCount)

	assert.Equal(t, []byte{0x01, 0x00}, protected[510:512])
	assert.Equal(t, []byte{0x01, 0x00}, protected[1022:1024])

	require.NoError(t, ApplyFixups(protected, header))

	assert.Equal(t, []byte{0x00, 0x00}, protected[510:512])
	assert.Equal(t, []byte{0x00, 0x00}, protected[1022:1024])

	got, err := ExtractFileName(protected, header)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestApplyFixups_Mismatch(t *testing.T) {
	buf := testutil.NewRecord(1024, 0).WithFixups(UpdateSequenceStride).Bytes()
	header := decodeHeader(t, buf)
	buf[1022] = 0x7F
	before := append([]byte(nil), buf...)

	err := ApplyFixups(buf, header)
	assert.ErrorIs(t, err, types.ErrFixupMismatch)
	assert.Equal(t, before, buf, "buffer must be left untouched on mismatch")
}

func TestApplyFixups_NoArray(t *testing.T) {
	buf := testutil.NewRecord(1024, 0).Bytes()
	before := append([]byte(nil), buf...)

	require.NoError(t, ApplyFixups(buf, decodeHeader(t, buf)))
	assert.Equal(t, before, buf)
}

func TestApplyFixups_ArrayOverrunsRecord(t *testing.T) {
	buf := testutil.NewRecord(1024, 0).Bytes()
	header := decodeHeader(t, buf)
	header.UpdateSequenceOffset = 1020
	header.UpdateSequenceCount = 8

	assert.ErrorIs(t, ApplyFixups(buf, header), types.ErrFixupMismatch)
}
