package testutil

import "github.com/deploymenttheory/go-ntfs-recovery/internal/types"

// DeletedFileFixture is the e2e scenario: one deleted 5000-byte file at MFT index 40,
// backed by two clusters at LCN 1000 on a 512-byte-sector, 8-sector-cluster volume.
type DeletedFileFixture struct {
	Volume   *MemoryVolume
	Boot     BootSectorSpec
	Content  []byte
	MFTIndex uint64
	LCN      uint64
}

// NewDeletedFileFixture builds the scenario volume.
func NewDeletedFileFixture() *DeletedFileFixture {
	boot := DefaultBootSectorSpec()
	vol := NewMemoryVolume(uint32(boot.BytesPerSector), boot.TotalSectors)
	vol.WriteSectors(0, BuildBootSector(boot))

	const (
		index    = 40
		lcn      = 1000
		fileSize = 5000
	)

	content := make([]byte, 2*4096)
	for i := range content {
		content[i] = byte(i % 251)
	}
	sectorsPerCluster := uint64(boot.SectorsPerCluster)
	vol.WriteSectors(lcn*sectorsPerCluster, content)

	record := NewRecord(1024, 0).
		WithNumber(index).
		AddStandardInformation(132000000000000000, 132000000100000000).
		AddFileName("deleted.txt", types.NamespaceWin32, 5).
		AddNonResidentData(fileSize, EncodeRuns([]RunSpec{{Delta: lcn, Clusters: 2}}), 0).
		Bytes()
	WriteRecord(vol, boot, index, record)

	return &DeletedFileFixture{
		Volume:   vol,
		Boot:     boot,
		Content:  content[:fileSize],
		MFTIndex: index,
		LCN:      lcn,
	}
}

// WriteRecord stores record at MFT index on vol, using boot to locate the MFT.
func WriteRecord(vol *MemoryVolume, boot BootSectorSpec, index uint64, record []byte) {
	mftStart := boot.MFTCluster * uint64(boot.SectorsPerCluster) * uint64(boot.BytesPerSector)
	vol.WriteBytes(mftStart+index*uint64(len(record)), record)
}
