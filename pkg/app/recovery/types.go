package recovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/scan"
)

// NoSelection marks an unset Index or Entry.
const NoSelection = -1

// Request represents a single-file recovery request
type Request struct {
	Target app.DeviceTarget
	// Config supplies the scan range for Index, and the chunk size, hash and overwrite
	// policy of the copy.
	Config device.Config

	// Exactly one of Index and Entry is set.
	// Index is a position in the unfiltered scan list.
	Index int
	// Entry is an MFT record index.
	Entry int64

	// OutputPath is a file path, or a directory that receives the recovered file name.
	OutputPath string
}

// NewRequest returns a request with neither selector set.
func NewRequest() *Request {
	return &Request{Index: NoSelection, Entry: NoSelection}
}

// Validate validates a recovery request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid device", err)
	}
	if err := r.Config.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}

	hasIndex := r.Index != NoSelection
	hasEntry := r.Entry != NoSelection
	switch {
	case hasIndex && hasEntry:
		return app.NewError(app.ErrCodeInvalidInput, "--index and --entry are mutually exclusive", nil)
	case !hasIndex && !hasEntry:
		return app.NewError(app.ErrCodeInvalidInput, "one of --index or --entry is required", nil)
	case r.Index < NoSelection:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid index %d", r.Index), nil)
	case r.Entry < NoSelection:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid MFT entry %d", r.Entry), nil)
	}
	return nil
}

// Response reports one recovery attempt
type Response struct {
	Device       string                `json:"device" yaml:"device"`
	File         scan.FileResult       `json:"file" yaml:"file"`
	OutputPath   string                `json:"output_path" yaml:"output_path"`
	Outcome      types.RecoveryOutcome `json:"outcome" yaml:"outcome"`
	BytesWritten uint64                `json:"bytes_written" yaml:"bytes_written"`
	DeclaredSize uint64                `json:"declared_size" yaml:"declared_size"`
	RunsReplayed int                   `json:"runs_replayed" yaml:"runs_replayed"`
	Hash         string                `json:"hash,omitempty" yaml:"hash,omitempty"`
	Digest       string                `json:"digest,omitempty" yaml:"digest,omitempty"`
	Error        string                `json:"error,omitempty" yaml:"error,omitempty"`
	Duration     time.Duration         `json:"duration" yaml:"duration"`

	cause error
}

// Err returns a CommonError when the outcome is neither Success nor Partial.
func (r *Response) Err() error {
	switch r.Outcome {
	case types.RecoverySuccess, types.RecoveryPartial:
		return nil
	}
	return app.NewError(app.ErrCodeRecovery,
		fmt.Sprintf("recovery of %s ended with %s", r.File.Name, r.Outcome), r.cause)
}

// SafeName returns the recovered file name with characters that are invalid on common
// host filesystems replaced. Records without a usable name get one from their index.
func SafeName(record types.DeletedFileRecord) string {
	name := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, record.FileName)

	if strings.Trim(name, ". ") == "" {
		return fmt.Sprintf("mft-%d.bin", record.MFTIndex)
	}
	return name
}
