package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// DeviceTarget selects the volume a command works on
type DeviceTarget struct {
	// Path is a drive letter, device path or image file.
	Path string
	// Partition follows device.Config.Partition.
	Partition int
}

// Validate ensures the device target is usable
func (dt *DeviceTarget) Validate() error {
	if dt.Path == "" {
		return errors.New("device path is required")
	}
	if dt.Partition < device.NoPartition {
		return fmt.Errorf("invalid partition %d", dt.Partition)
	}
	return nil
}

// String returns a string representation of the device target
func (dt *DeviceTarget) String() string {
	switch {
	case dt.Partition == 0:
		return dt.Path + " (first NTFS partition)"
	case dt.Partition > 0:
		return fmt.Sprintf("%s (partition %d)", dt.Path, dt.Partition)
	}
	return dt.Path
}

// ProgressUpdate represents progress information
type ProgressUpdate struct {
	Message     string
	Completed   int64
	Total       int64
	Found       int
	StartedAt   time.Time
	ElapsedTime time.Duration
}

// Percent calculates completion percentage
func (p *ProgressUpdate) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int((p.Completed * 100) / p.Total)
}

// Rate calculates items per second
func (p *ProgressUpdate) Rate() float64 {
	if p.ElapsedTime == 0 {
		return 0
	}
	return float64(p.Completed) / p.ElapsedTime.Seconds()
}

// ETA estimates time to completion
func (p *ProgressUpdate) ETA() time.Duration {
	if p.Completed == 0 || p.Total == 0 {
		return 0
	}
	rate := p.Rate()
	if rate == 0 {
		return 0
	}
	remaining := p.Total - p.Completed
	return time.Duration(float64(remaining) / rate * float64(time.Second))
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeDeviceAccess   = "DEVICE_ACCESS"
	ErrCodeNotNTFS        = "NOT_NTFS"
	ErrCodeRecordNotFound = "RECORD_NOT_FOUND"
	ErrCodeRecovery       = "RECOVERY_FAILED"
	ErrCodeCancelled      = "CANCELLED"
	ErrCodeCatalog        = "CATALOG"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// SessionError classifies a failure to open an NTFS session on a device.
func SessionError(err error) *CommonError {
	if errors.Is(err, types.ErrSignatureMismatch) || errors.Is(err, types.ErrTooSmall) || errors.Is(err, types.ErrInvalidGeometry) {
		return NewError(ErrCodeNotNTFS, "not an NTFS volume", err)
	}
	return NewError(ErrCodeDeviceAccess, "failed to read boot sector", err)
}
