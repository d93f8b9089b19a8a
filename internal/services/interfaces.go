package services

import (
	"context"
	"io"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// DeletedFileScanner walks a range of MFT records and yields the deleted files in it.
type DeletedFileScanner interface {
	Next() (types.DeletedFileRecord, bool)
	Position() uint64
	Stats() ScanStats
	ScanAll(ctx context.Context, progress ProgressFunc) ([]types.DeletedFileRecord, error)
}

// FileRecoverer replays the cluster runs of a deleted file into an output.
type FileRecoverer interface {
	Recover(record types.DeletedFileRecord, sink io.Writer) types.RecoveryResult
	RecoverToPath(record types.DeletedFileRecord, path string) types.RecoveryResult
}

var (
	_ DeletedFileScanner = (*Scanner)(nil)
	_ FileRecoverer      = (*RecoveryEngine)(nil)
)
