package device

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/disk"
)

// VolumeInfo describes one mounted volume reported by the operating system.
type VolumeInfo struct {
	Device     string `json:"device" yaml:"device"`
	Mountpoint string `json:"mountpoint" yaml:"mountpoint"`
	Fstype     string `json:"fstype" yaml:"fstype"`
	Total      uint64 `json:"total" yaml:"total"`
	Free       uint64 `json:"free" yaml:"free"`
	NTFS       bool   `json:"ntfs" yaml:"ntfs"`
}

// partitionLister is the gopsutil call, replaceable in tests.
var partitionLister = disk.Partitions

var usageReader = disk.Usage

// ListVolumes enumerates mounted partitions. With all set, pseudo filesystems are included.
func ListVolumes(all bool) ([]VolumeInfo, error) {
	partitions, err := partitionLister(all)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	volumes := make([]VolumeInfo, 0, len(partitions))
	for _, p := range partitions {
		info := VolumeInfo{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			NTFS:       IsNTFSFilesystem(p.Fstype),
		}
		if usage, err := usageReader(p.Mountpoint); err == nil {
			info.Total = usage.Total
			info.Free = usage.Free
		}
		volumes = append(volumes, info)
	}
	return volumes, nil
}

// IsNTFSFilesystem reports whether an OS filesystem type name denotes NTFS, covering the
// Windows name and the Linux ntfs, ntfs3 and ntfs-3g drivers.
func IsNTFSFilesystem(fstype string) bool {
	return strings.Contains(strings.ToLower(fstype), "ntfs")
}
