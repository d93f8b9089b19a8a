package volumes

import (
	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
)

// Request selects what to enumerate
type Request struct {
	// Image lists the partition table of a whole-disk device or image instead of the
	// mounted volumes.
	Image string
	// All includes pseudo filesystems.
	All bool
	// NTFSOnly drops everything that is not NTFS.
	NTFSOnly bool
}

// Response lists candidate volumes
type Response struct {
	Volumes    []device.VolumeInfo    `json:"volumes,omitempty" yaml:"volumes,omitempty"`
	Image      string                 `json:"image,omitempty" yaml:"image,omitempty"`
	Partitions []device.PartitionInfo `json:"partitions,omitempty" yaml:"partitions,omitempty"`
}
