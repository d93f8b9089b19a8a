package services

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

func newTestSession(t *testing.T, vol *testutil.MemoryVolume) *Session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	session, err := NewSession(vol, logger)
	require.NoError(t, err)
	return session
}

func bootedVolume(spec testutil.BootSectorSpec) *testutil.MemoryVolume {
	vol := testutil.NewMemoryVolume(uint32(spec.BytesPerSector), spec.TotalSectors)
	vol.WriteSectors(0, testutil.BuildBootSector(spec))
	return vol
}

func TestNewSession(t *testing.T) {
	vol := bootedVolume(testutil.DefaultBootSectorSpec())
	logger, hook := test.NewNullLogger()

	session, err := NewSession(vol, logger)
	require.NoError(t, err)

	g := session.Geometry()
	assert.Equal(t, uint32(4096), g.BytesPerCluster)
	assert.Equal(t, uint32(1024), g.FileRecordSize)
	assert.Equal(t, uint64(32), g.MFTStartSector)
	assert.True(t, g.HasBootSignature)
	assert.Empty(t, hook.AllEntries(), "no warnings for a well-formed boot sector")
	assert.Equal(t, []testutil.ReadCall{{Start: 0, Count: 1}}, vol.Reads)
}

func TestNewSession_MissingEndMarkerWarns(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	spec.OmitEndMarker = true
	logger, hook := test.NewNullLogger()

	session, err := NewSession(bootedVolume(spec), logger)
	require.NoError(t, err)
	assert.False(t, session.Geometry().HasBootSignature)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNewSession_Errors(t *testing.T) {
	t.Run("not ntfs", func(t *testing.T) {
		spec := testutil.DefaultBootSectorSpec()
		spec.OEMID = "EXFAT   "
		_, err := NewSession(bootedVolume(spec), nil)
		assert.ErrorIs(t, err, types.ErrSignatureMismatch)
	})

	t.Run("unreadable", func(t *testing.T) {
		vol := bootedVolume(testutil.DefaultBootSectorSpec())
		vol.FailSectors(0, 1)
		_, err := NewSession(vol, nil)
		assert.ErrorIs(t, err, testutil.ErrInjectedRead)
	})

	t.Run("blank", func(t *testing.T) {
		_, err := NewSession(testutil.NewMemoryVolume(512, 16), nil)
		assert.ErrorIs(t, err, types.ErrSignatureMismatch)
	})
}

func TestSession_ReadRecord(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	vol := bootedVolume(spec)
	record := testutil.NewRecord(1024, 0).WithNumber(7).AddFileName("seven", types.NamespaceWin32, 5).Bytes()
	testutil.WriteRecord(vol, spec, 7, record)
	session := newTestSession(t, vol)

	got, err := session.ReadRecord(7)
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, testutil.ReadCall{Start: 32 + 14, Count: 2}, vol.Reads[len(vol.Reads)-1])
}

func TestSession_ReadRecordWithinLargeSectors(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	vol := testutil.NewMemoryVolume(4096, spec.TotalSectors/8)
	vol.WriteSectors(0, testutil.BuildBootSector(spec))

	records := make([][]byte, 4)
	for i := range records {
		records[i] = testutil.NewRecord(1024, 0).WithNumber(uint32(i)).Bytes()
		testutil.WriteRecord(vol, spec, uint64(i), records[i])
	}

	logger, hook := test.NewNullLogger()
	session, err := NewSession(vol, logger)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level, "sector size mismatch is reported")

	for i := range records {
		got, err := session.ReadRecord(uint64(i))
		require.NoError(t, err)
		assert.Equal(t, records[i], got, "record %d", i)
	}
	assert.Equal(t, testutil.ReadCall{Start: 4, Count: 1}, vol.Reads[len(vol.Reads)-1])
}

func TestSession_RecordOffsetOverflow(t *testing.T) {
	session := newTestSession(t, bootedVolume(testutil.DefaultBootSectorSpec()))

	_, err := session.RecordOffset(^uint64(0))
	assert.Error(t, err)

	off, err := session.RecordOffset(40)
	require.NoError(t, err)
	assert.Equal(t, uint64(32*512+40*1024), off)
}

func TestSession_MFTRecordCount(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	vol := bootedVolume(spec)
	mftRecord := testutil.NewRecord(1024, types.FileRecordInUse).
		AddFileName("$MFT", types.NamespaceWin32AndDOS, 5).
		AddNonResidentData(64*1024, testutil.EncodeRuns([]testutil.RunSpec{{Delta: 4, Clusters: 16}}), 0).
		Bytes()
	testutil.WriteRecord(vol, spec, 0, mftRecord)

	count, err := newTestSession(t, vol).MFTRecordCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(64), count)

	_, err = newTestSession(t, bootedVolume(spec)).MFTRecordCount()
	assert.ErrorIs(t, err, types.ErrBadSignature)
}
