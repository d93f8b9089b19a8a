package device

import (
	"fmt"
	"io"
	"os"

	diskfs "github.com/diskfs/go-diskfs"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/boot"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// PartitionInfo describes one used slot of an MBR or GPT partition table.
type PartitionInfo struct {
	// Index is the 1-based table slot.
	Index int   `json:"index" yaml:"index"`
	Start int64 `json:"start" yaml:"start"`
	Size  int64 `json:"size" yaml:"size"`
	NTFS  bool  `json:"ntfs" yaml:"ntfs"`
}

// ListPartitions reads the partition table of a whole-disk device or image and reports
// which partitions carry an NTFS boot sector.
func ListPartitions(path string) ([]PartitionInfo, error) {
	disk, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open disk %s: %w", path, err)
	}
	defer disk.Close()

	table, err := disk.GetPartitionTable()
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table of %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var parts []PartitionInfo
	for i, p := range table.GetPartitions() {
		if p == nil || p.GetSize() <= 0 {
			continue
		}
		parts = append(parts, PartitionInfo{
			Index: i + 1,
			Start: p.GetStart(),
			Size:  p.GetSize(),
			NTFS:  hasNTFSBootSector(file, p.GetStart()),
		})
	}
	return parts, nil
}

// FindPartition selects a partition by 1-based slot, or the first NTFS partition when
// index is 0.
func FindPartition(path string, index int) (PartitionInfo, error) {
	parts, err := ListPartitions(path)
	if err != nil {
		return PartitionInfo{}, err
	}
	for _, p := range parts {
		if (index == 0 && p.NTFS) || (index > 0 && p.Index == index) {
			return p, nil
		}
	}
	if index == 0 {
		return PartitionInfo{}, fmt.Errorf("no NTFS partition found on %s", path)
	}
	return PartitionInfo{}, fmt.Errorf("partition %d not found on %s", index, path)
}

func hasNTFSBootSector(r io.ReaderAt, offset int64) bool {
	sector := make([]byte, types.BootSectorSize)
	if _, err := r.ReadAt(sector, offset); err != nil {
		return false
	}
	_, err := boot.DecodeBootSector(sector)
	return err == nil
}
