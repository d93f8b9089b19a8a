// Package testutil builds synthetic NTFS structures and volumes for package tests.
package testutil

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// BootSectorSpec describes the fields written by BuildBootSector.
type BootSectorSpec struct {
	OEMID                  string
	BytesPerSector         uint16
	SectorsPerCluster      uint8
	TotalSectors           uint64
	MFTCluster             uint64
	MFTMirrorCluster       uint64
	ClustersPerFileRecord  int8
	ClustersPerIndexRecord int8
	VolumeSerial           uint64
	OmitEndMarker          bool
}

// DefaultBootSectorSpec returns a 512-byte-sector, 4KiB-cluster volume with 1KiB records.
func DefaultBootSectorSpec() BootSectorSpec {
	return BootSectorSpec{
		OEMID:                  "NTFS    ",
		BytesPerSector:         512,
		SectorsPerCluster:      8,
		TotalSectors:           2097152,
		MFTCluster:             4,
		MFTMirrorCluster:       1000000,
		ClustersPerFileRecord:  -10,
		ClustersPerIndexRecord: 1,
		VolumeSerial:           0x1122334455667788,
	}
}

// BuildBootSector encodes spec into a 512-byte boot sector.
func BuildBootSector(spec BootSectorSpec) []byte {
	sector := make([]byte, types.BootSectorSize)
	sector[0], sector[1], sector[2] = 0xEB, 0x52, 0x90

	oem := spec.OEMID
	if oem == "" {
		oem = "NTFS    "
	}
	copy(sector[types.BootOEMIDOffset:types.BootOEMIDOffset+8], oem)

	le := binary.LittleEndian
	le.PutUint16(sector[types.BootBytesPerSectorOffset:], spec.BytesPerSector)
	sector[types.BootSectorsPerClusterOffset] = spec.SectorsPerCluster
	sector[21] = 0xF8 // media descriptor
	le.PutUint64(sector[types.BootTotalSectorsOffset:], spec.TotalSectors)
	le.PutUint64(sector[types.BootMFTClusterOffset:], spec.MFTCluster)
	le.PutUint64(sector[types.BootMFTMirrorClusterOffset:], spec.MFTMirrorCluster)
	sector[types.BootClustersPerFileRecordOffset] = byte(spec.ClustersPerFileRecord)
	sector[types.BootClustersPerIndexRecordOffset] = byte(spec.ClustersPerIndexRecord)
	le.PutUint64(sector[types.BootVolumeSerialOffset:], spec.VolumeSerial)

	if !spec.OmitEndMarker {
		le.PutUint16(sector[types.BootEndMarkerOffset:], types.BootEndMarker)
	}
	return sector
}
