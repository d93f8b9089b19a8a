package info

import (
	"fmt"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// Request represents a boot sector inspection request
type Request struct {
	Target app.DeviceTarget
	Config device.Config
}

// Validate validates an info request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid device", err)
	}
	if err := r.Config.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	return nil
}

// Response describes the geometry of one NTFS volume
type Response struct {
	Device   string       `json:"device" yaml:"device"`
	Geometry GeometryInfo `json:"geometry" yaml:"geometry"`
}

// GeometryInfo is the display form of the boot sector geometry
type GeometryInfo struct {
	OEMID             string `json:"oem_id" yaml:"oem_id"`
	BytesPerSector    uint32 `json:"bytes_per_sector" yaml:"bytes_per_sector"`
	SectorsPerCluster uint32 `json:"sectors_per_cluster" yaml:"sectors_per_cluster"`
	BytesPerCluster   uint32 `json:"bytes_per_cluster" yaml:"bytes_per_cluster"`
	FileRecordSize    uint32 `json:"file_record_size" yaml:"file_record_size"`
	IndexRecordSize   uint32 `json:"index_record_size" yaml:"index_record_size"`
	TotalSectors      uint64 `json:"total_sectors" yaml:"total_sectors"`
	VolumeSize        uint64 `json:"volume_size" yaml:"volume_size"`
	MFTCluster        uint64 `json:"mft_cluster" yaml:"mft_cluster"`
	MFTMirrorCluster  uint64 `json:"mft_mirror_cluster" yaml:"mft_mirror_cluster"`
	MFTStartSector    uint64 `json:"mft_start_sector" yaml:"mft_start_sector"`
	VolumeSerial      string `json:"volume_serial" yaml:"volume_serial"`
	BootSignature     bool   `json:"boot_signature" yaml:"boot_signature"`
}

// NewGeometryInfo converts decoded geometry for display
func NewGeometryInfo(g types.VolumeGeometry) GeometryInfo {
	return GeometryInfo{
		OEMID:             g.OEMID,
		BytesPerSector:    g.BytesPerSector,
		SectorsPerCluster: g.SectorsPerCluster,
		BytesPerCluster:   g.BytesPerCluster,
		FileRecordSize:    g.FileRecordSize,
		IndexRecordSize:   g.IndexRecordSize,
		TotalSectors:      g.TotalSectors,
		VolumeSize:        g.VolumeSize(),
		MFTCluster:        g.MFTCluster,
		MFTMirrorCluster:  g.MFTMirrorCluster,
		MFTStartSector:    g.MFTStartSector,
		VolumeSerial:      fmt.Sprintf("%016X", g.VolumeSerial),
		BootSignature:     g.HasBootSignature,
	}
}
