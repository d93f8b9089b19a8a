package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

func TestDecodeBootSector(t *testing.T) {
	tests := []struct {
		name               string
		bytesPerSector     uint16
		sectorsPerCluster  uint8
		mftCluster         uint64
		clustersPerRecord  int8
		expectedCluster    uint32
		expectedRecordSize uint32
		expectedMFTSector  uint64
	}{
		{
			name:               "Standard 4K clusters with 1K records",
			bytesPerSector:     512,
			sectorsPerCluster:  8,
			mftCluster:         786432,
			clustersPerRecord:  -10,
			expectedCluster:    4096,
			expectedRecordSize: 1024,
			expectedMFTSector:  786432 * 8,
		},
		{
			name:               "Advanced format 4K sectors",
			bytesPerSector:     4096,
			sectorsPerCluster:  1,
			mftCluster:         100,
			clustersPerRecord:  -12,
			expectedCluster:    4096,
			expectedRecordSize: 4096,
			expectedMFTSector:  100,
		},
		{
			name:               "Positive clusters per record",
			bytesPerSector:     512,
			sectorsPerCluster:  2,
			mftCluster:         16,
			clustersPerRecord:  1,
			expectedCluster:    1024,
			expectedRecordSize: 1024,
			expectedMFTSector:  32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testutil.DefaultBootSectorSpec()
			spec.BytesPerSector = tt.bytesPerSector
			spec.SectorsPerCluster = tt.sectorsPerCluster
			spec.MFTCluster = tt.mftCluster
			spec.ClustersPerFileRecord = tt.clustersPerRecord

			geometry, err := DecodeBootSector(testutil.BuildBootSector(spec))
			require.NoError(t, err)

			assert.Equal(t, uint32(tt.bytesPerSector), geometry.BytesPerSector)
			assert.Equal(t, uint32(tt.sectorsPerCluster), geometry.SectorsPerCluster)
			assert.Equal(t, tt.mftCluster, geometry.MFTCluster)
			assert.Equal(t, tt.expectedCluster, geometry.BytesPerCluster)
			assert.Equal(t, tt.expectedRecordSize, geometry.FileRecordSize)
			assert.Equal(t, tt.expectedMFTSector, geometry.MFTStartSector)
			assert.Equal(t, spec.TotalSectors, geometry.TotalSectors)
			assert.Equal(t, spec.MFTMirrorCluster, geometry.MFTMirrorCluster)
			assert.Equal(t, spec.VolumeSerial, geometry.VolumeSerial)
			assert.Equal(t, "NTFS    ", geometry.OEMID)
			assert.True(t, geometry.HasBootSignature)
		})
	}
}

func TestDecodeBootSector_TooSmall(t *testing.T) {
	for _, size := range []int{0, 1, 100, 511} {
		full := testutil.BuildBootSector(testutil.DefaultBootSectorSpec())
		_, err := DecodeBootSector(full[:size])
		assert.ErrorIs(t, err, types.ErrTooSmall, "size %d", size)
	}
}

func TestDecodeBootSector_SignatureMismatch(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	spec.OEMID = "MSDOS5.0"

	_, err := DecodeBootSector(testutil.BuildBootSector(spec))
	assert.ErrorIs(t, err, types.ErrSignatureMismatch)
}

func TestDecodeBootSector_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testutil.BootSectorSpec)
	}{
		{"Zero bytes per sector", func(s *testutil.BootSectorSpec) { s.BytesPerSector = 0 }},
		{"Zero sectors per cluster", func(s *testutil.BootSectorSpec) { s.SectorsPerCluster = 0 }},
		{"Zero clusters per record", func(s *testutil.BootSectorSpec) { s.ClustersPerFileRecord = 0 }},
		{"Record exponent out of range", func(s *testutil.BootSectorSpec) { s.ClustersPerFileRecord = -40 }},
		{"Record smaller than a sector", func(s *testutil.BootSectorSpec) { s.ClustersPerFileRecord = -4 }},
		{"Record smaller than a 4K sector", func(s *testutil.BootSectorSpec) {
			s.BytesPerSector = 4096
			s.SectorsPerCluster = 1
			s.ClustersPerFileRecord = -10
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testutil.DefaultBootSectorSpec()
			tt.mutate(&spec)
			_, err := DecodeBootSector(testutil.BuildBootSector(spec))
			assert.ErrorIs(t, err, types.ErrInvalidGeometry)
		})
	}
}

func TestDecodeBootSector_MissingEndMarker(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	spec.OmitEndMarker = true

	geometry, err := DecodeBootSector(testutil.BuildBootSector(spec))
	require.NoError(t, err)
	assert.False(t, geometry.HasBootSignature)
}

func TestDecodeBootSector_LargeClusterEncoding(t *testing.T) {
	spec := testutil.DefaultBootSectorSpec()
	spec.SectorsPerCluster = 0xF4 // 2^12 sectors, 2MiB clusters with 512-byte sectors

	geometry, err := DecodeBootSector(testutil.BuildBootSector(spec))
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), geometry.SectorsPerCluster)
	assert.Equal(t, uint32(2*1024*1024), geometry.BytesPerCluster)
}

func TestDecodeBootSector_IgnoresTrailingBytes(t *testing.T) {
	sector := testutil.BuildBootSector(testutil.DefaultBootSectorSpec())
	larger := append(append([]byte{}, sector...), make([]byte, 3584)...)

	a, err := DecodeBootSector(sector)
	require.NoError(t, err)
	b, err := DecodeBootSector(larger)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
