package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// Validate validates a scan request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid device", err)
	}
	if err := r.Config.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}

	if r.NamePattern != "" {
		if _, err := filepath.Match(r.NamePattern, ""); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid name pattern", err)
		}
	}

	minSize, err := ParseSize(r.MinSize)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid min-size format", err)
	}
	maxSize, err := ParseSize(r.MaxSize)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid max-size format", err)
	}
	if r.MaxSize != "" && minSize > maxSize {
		return app.NewError(app.ErrCodeInvalidInput, "min-size is larger than max-size", nil)
	}

	return nil
}

// ParseSize converts strings like "10MB" or "4 KiB" to bytes. Empty is zero.
func ParseSize(size string) (uint64, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	return n, nil
}

// filter holds the parsed result filters of a request
type filter struct {
	pattern         string
	extensions      map[string]bool
	minSize         uint64
	maxSize         uint64
	recoverableOnly bool
}

func newFilter(r *Request) filter {
	f := filter{
		pattern:         strings.ToLower(r.NamePattern),
		recoverableOnly: r.RecoverableOnly,
	}
	if len(r.Extensions) > 0 {
		f.extensions = make(map[string]bool, len(r.Extensions))
		for _, ext := range r.Extensions {
			f.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}
	// Validate has already checked both sizes.
	f.minSize, _ = ParseSize(r.MinSize)
	f.maxSize, _ = ParseSize(r.MaxSize)
	return f
}

func (f filter) match(record types.DeletedFileRecord) bool {
	if f.pattern != "" {
		if ok, _ := filepath.Match(f.pattern, strings.ToLower(record.FileName)); !ok {
			return false
		}
	}
	if f.extensions != nil && !f.extensions[extensionOf(record.FileName)] {
		return false
	}
	if record.FileSize < f.minSize {
		return false
	}
	if f.maxSize > 0 && record.FileSize > f.maxSize {
		return false
	}
	if f.recoverableOnly && !record.Recoverable() {
		return false
	}
	return true
}
