package scan

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/services"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/info"
)

// Request represents a deleted-file scan request
type Request struct {
	Target app.DeviceTarget
	// Config carries the scan range, fix-up and device settings.
	Config device.Config

	// Filters applied to the scan results
	NamePattern string
	Extensions  []string
	MinSize     string
	MaxSize     string
	// RecoverableOnly drops records with no cluster runs.
	RecoverableOnly bool
}

// Response represents scan results
type Response struct {
	Device     string             `json:"device" yaml:"device"`
	Geometry   info.GeometryInfo  `json:"geometry" yaml:"geometry"`
	Files      []FileResult       `json:"files" yaml:"files"`
	TotalFound int                `json:"total_found" yaml:"total_found"`
	Stats      services.ScanStats `json:"stats" yaml:"stats"`
	ScanTime   time.Duration      `json:"scan_time" yaml:"scan_time"`
	Range      ScanRange          `json:"range" yaml:"range"`
	// CatalogScanID is set when the scan was saved to a catalog.
	CatalogScanID int64 `json:"catalog_scan_id,omitempty" yaml:"catalog_scan_id,omitempty"`

	// Records is the unfiltered scan result in list order.
	Records []types.DeletedFileRecord `json:"-" yaml:"-"`
}

// ScanRange is the MFT index range that was examined
type ScanRange struct {
	Start   uint64 `json:"start" yaml:"start"`
	Entries uint64 `json:"entries" yaml:"entries"`
}

// FileResult represents one deleted file
type FileResult struct {
	// Index is the position in the unfiltered result list, used by recover --index.
	Index       int       `json:"index" yaml:"index"`
	MFTIndex    uint64    `json:"mft_index" yaml:"mft_index"`
	Sequence    uint16    `json:"sequence" yaml:"sequence"`
	Name        string    `json:"name" yaml:"name"`
	Extension   string    `json:"extension,omitempty" yaml:"extension,omitempty"`
	Size        uint64    `json:"size" yaml:"size"`
	ParentIndex uint64    `json:"parent_index" yaml:"parent_index"`
	Created     time.Time `json:"created" yaml:"created"`
	Modified    time.Time `json:"modified" yaml:"modified"`
	Resident    bool      `json:"resident" yaml:"resident"`
	Compressed  bool      `json:"compressed" yaml:"compressed"`
	Encrypted   bool      `json:"encrypted" yaml:"encrypted"`
	Runs        int       `json:"runs" yaml:"runs"`
	Clusters    uint64    `json:"clusters" yaml:"clusters"`
	Recoverable bool      `json:"recoverable" yaml:"recoverable"`
	ObjectID    string    `json:"object_id,omitempty" yaml:"object_id,omitempty"`
}

// NewFileResult converts a scanner record for display
func NewFileResult(index int, r types.DeletedFileRecord) FileResult {
	result := FileResult{
		Index:       index,
		MFTIndex:    r.MFTIndex,
		Sequence:    r.SequenceNumber,
		Name:        r.FileName,
		Extension:   extensionOf(r.FileName),
		Size:        r.FileSize,
		ParentIndex: r.Parent.RecordNumber(),
		Created:     r.CreationTime.Time(),
		Modified:    r.ModificationTime.Time(),
		Resident:    r.Resident,
		Compressed:  r.IsCompressed(),
		Encrypted:   r.IsEncrypted(),
		Runs:        len(r.Runs),
		Clusters:    r.Runs.TotalClusters(),
		Recoverable: r.Recoverable(),
	}
	if r.ObjectID != nil {
		result.ObjectID = r.ObjectID.String()
	}
	return result
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
