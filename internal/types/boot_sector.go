// Package types implements the NTFS on-disk structures used for deleted-file recovery.
package types

// Boot Sector Layout
// All multi-byte fields are little-endian and sit at fixed offsets from the start of the
// volume's first sector.

const (
	// BootSectorSize is the minimum number of bytes needed to decode a boot sector.
	BootSectorSize = 512

	// BootOEMIDOffset is the offset of the 8-byte OEM identifier.
	BootOEMIDOffset = 3
	// BootBytesPerSectorOffset is the offset of the u16 bytes-per-sector field.
	BootBytesPerSectorOffset = 11
	// BootSectorsPerClusterOffset is the offset of the u8 sectors-per-cluster field.
	BootSectorsPerClusterOffset = 13
	// BootTotalSectorsOffset is the offset of the u64 total sector count.
	BootTotalSectorsOffset = 40
	// BootMFTClusterOffset is the offset of the u64 logical cluster number of $MFT.
	BootMFTClusterOffset = 48
	// BootMFTMirrorClusterOffset is the offset of the u64 logical cluster number of $MFTMirr.
	BootMFTMirrorClusterOffset = 56
	// BootClustersPerFileRecordOffset is the offset of the signed clusters-per-file-record byte.
	BootClustersPerFileRecordOffset = 64
	// BootClustersPerIndexRecordOffset is the offset of the signed clusters-per-index-record byte.
	BootClustersPerIndexRecordOffset = 68
	// BootVolumeSerialOffset is the offset of the u64 volume serial number.
	BootVolumeSerialOffset = 72
	// BootEndMarkerOffset is the offset of the 0xAA55 end-of-sector marker.
	BootEndMarkerOffset = 510

	// BootEndMarker is the value stored at BootEndMarkerOffset on a well-formed boot sector.
	BootEndMarker uint16 = 0xAA55

	// MaxFileRecordSize caps the decoded file record size. Real volumes use 1024 or 4096.
	MaxFileRecordSize = 64 * 1024
)

// NTFSOEMID is the OEM identifier every NTFS boot sector carries.
var NTFSOEMID = []byte("NTFS    ")

// VolumeGeometry holds the parameters derived from an NTFS boot sector.
// It is computed once per opened volume and never modified afterwards.
type VolumeGeometry struct {
	OEMID string

	BytesPerSector    uint32
	SectorsPerCluster uint32
	// BytesPerCluster is BytesPerSector * SectorsPerCluster.
	BytesPerCluster uint32

	// ClustersPerFileRecord is positive for a cluster multiple, negative for 2^|n| bytes.
	ClustersPerFileRecord  int8
	ClustersPerIndexRecord int8

	// FileRecordSize is the decoded size in bytes of one MFT record.
	FileRecordSize uint32
	// IndexRecordSize is the decoded size in bytes of one index buffer.
	IndexRecordSize uint32

	TotalSectors     uint64
	MFTCluster       uint64
	MFTMirrorCluster uint64
	// MFTStartSector is MFTCluster * SectorsPerCluster.
	MFTStartSector uint64

	VolumeSerial uint64

	// HasBootSignature reports whether the 0xAA55 end marker was present.
	HasBootSignature bool
}

// RecordSizeFromEncoding converts the signed clusters-per-record byte into a byte count.
// Positive values are a multiple of the cluster size; negative values are 2^|n| bytes.
func RecordSizeFromEncoding(encoded int8, bytesPerCluster uint32) uint64 {
	if encoded >= 0 {
		return uint64(encoded) * uint64(bytesPerCluster)
	}
	shift := -int(encoded)
	if shift >= 32 {
		return 0
	}
	return uint64(1) << uint(shift)
}

// SectorsPerFileRecord returns the number of whole sectors one record spans, rounded up.
func (g VolumeGeometry) SectorsPerFileRecord() uint32 {
	if g.BytesPerSector == 0 {
		return 0
	}
	return (g.FileRecordSize + g.BytesPerSector - 1) / g.BytesPerSector
}

// ClusterToSector converts a logical cluster number into an absolute sector number.
func (g VolumeGeometry) ClusterToSector(lcn uint64) uint64 {
	return lcn * uint64(g.SectorsPerCluster)
}

// VolumeSize returns the size of the volume in bytes as declared by the boot sector.
func (g VolumeGeometry) VolumeSize() uint64 {
	return g.TotalSectors * uint64(g.BytesPerSector)
}
