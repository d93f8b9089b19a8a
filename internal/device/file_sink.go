package device

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
)

// FileSinkFactory creates recovery output files. Existing files are refused unless
// Overwrite is set.
type FileSinkFactory struct {
	Overwrite bool
	// MkdirAll creates missing parent directories.
	MkdirAll bool
}

var _ interfaces.SinkFactory = (*FileSinkFactory)(nil)

// Create opens path for writing.
func (f *FileSinkFactory) Create(path string) (io.WriteCloser, error) {
	if f.MkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	flags := os.O_WRONLY | os.O_CREATE
	if f.Overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
