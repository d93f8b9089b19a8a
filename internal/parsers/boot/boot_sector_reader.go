package boot

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// DecodeBootSector parses the first sector of a volume into its geometry.
// It only looks at the documented fixed offsets and never reads past BootSectorSize.
func DecodeBootSector(sector []byte) (types.VolumeGeometry, error) {
	if len(sector) < types.BootSectorSize {
		return types.VolumeGeometry{}, fmt.Errorf("%w: got %d bytes", types.ErrTooSmall, len(sector))
	}

	oemID := sector[types.BootOEMIDOffset : types.BootOEMIDOffset+8]
	if !bytes.Equal(oemID, types.NTFSOEMID) {
		return types.VolumeGeometry{}, fmt.Errorf("%w: %q", types.ErrSignatureMismatch, oemID)
	}

	endian := binary.LittleEndian

	geometry := types.VolumeGeometry{
		OEMID:                  string(oemID),
		BytesPerSector:         uint32(endian.Uint16(sector[types.BootBytesPerSectorOffset:])),
		SectorsPerCluster:      decodeSectorsPerCluster(sector[types.BootSectorsPerClusterOffset]),
		TotalSectors:           endian.Uint64(sector[types.BootTotalSectorsOffset:]),
		MFTCluster:             endian.Uint64(sector[types.BootMFTClusterOffset:]),
		MFTMirrorCluster:       endian.Uint64(sector[types.BootMFTMirrorClusterOffset:]),
		ClustersPerFileRecord:  int8(sector[types.BootClustersPerFileRecordOffset]),
		ClustersPerIndexRecord: int8(sector[types.BootClustersPerIndexRecordOffset]),
		VolumeSerial:           endian.Uint64(sector[types.BootVolumeSerialOffset:]),
		HasBootSignature:       endian.Uint16(sector[types.BootEndMarkerOffset:]) == types.BootEndMarker,
	}

	if geometry.BytesPerSector == 0 {
		return types.VolumeGeometry{}, fmt.Errorf("%w: bytes per sector is zero", types.ErrInvalidGeometry)
	}
	if geometry.SectorsPerCluster == 0 {
		return types.VolumeGeometry{}, fmt.Errorf("%w: sectors per cluster is zero", types.ErrInvalidGeometry)
	}

	geometry.BytesPerCluster = geometry.BytesPerSector * geometry.SectorsPerCluster
	geometry.MFTStartSector = geometry.MFTCluster * uint64(geometry.SectorsPerCluster)

	recordSize := types.RecordSizeFromEncoding(geometry.ClustersPerFileRecord, geometry.BytesPerCluster)
	if recordSize < uint64(geometry.BytesPerSector) || recordSize < types.FileRecordHeaderSize ||
		recordSize > types.MaxFileRecordSize {
		return types.VolumeGeometry{}, fmt.Errorf("%w: file record size %d (encoded %d)",
			types.ErrInvalidGeometry, recordSize, geometry.ClustersPerFileRecord)
	}
	geometry.FileRecordSize = uint32(recordSize)

	indexSize := types.RecordSizeFromEncoding(geometry.ClustersPerIndexRecord, geometry.BytesPerCluster)
	if indexSize <= types.MaxFileRecordSize {
		geometry.IndexRecordSize = uint32(indexSize)
	}

	return geometry, nil
}

// decodeSectorsPerCluster handles the large-cluster encoding used by volumes formatted with
// clusters above 64KiB, where values past 0x80 store a negative power of two.
func decodeSectorsPerCluster(raw uint8) uint32 {
	if raw <= 0x80 {
		return uint32(raw)
	}
	shift := 256 - uint32(raw)
	if shift >= 32 {
		return 0
	}
	return 1 << shift
}
