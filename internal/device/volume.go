// Package device opens raw volumes and disk images for sector-level reading.
package device

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
)

// DefaultSectorSize is used when neither the config nor the device reports one.
const DefaultSectorSize = 512

// ErrShortRead reports a read that ended before the requested sectors were filled.
var ErrShortRead = errors.New("short read")

// FileVolume is a Volume backed by a device handle or image file. An optional byte offset
// selects a partition inside a whole-disk image.
type FileVolume struct {
	file       *os.File
	path       string
	offset     int64
	size       int64
	sectorSize uint32
	// bounded limits reads to size bytes past offset. Set for partitions.
	bounded    bool
}

var _ interfaces.Volume = (*FileVolume)(nil)

// ReadSectors reads count sectors starting at start, relative to the volume offset.
// A partition volume never reads past the partition's end.
func (v *FileVolume) ReadSectors(start uint64, count uint32) ([]byte, error) {
	length := int64(count) * int64(v.sectorSize)
	rel := int64(start) * int64(v.sectorSize)
	if v.bounded && (start > uint64(v.size) || rel+length > v.size) {
		return nil, fmt.Errorf("reading sectors %d+%d: %w: partition ends at byte %d", start, count, ErrShortRead, v.size)
	}
	off := v.offset + rel
	buf := make([]byte, length)

	n, err := v.file.ReadAt(buf, off)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == length) {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading sectors %d+%d: %w after %d bytes", start, count, ErrShortRead, n)
		}
		return nil, fmt.Errorf("reading sectors %d+%d: %w", start, count, err)
	}
	return buf, nil
}

// BytesPerSector returns the sector size used to address the volume.
func (v *FileVolume) BytesPerSector() uint32 {
	return v.sectorSize
}

// Path returns the path the volume was opened from.
func (v *FileVolume) Path() string {
	return v.path
}

// Size returns the volume size in bytes, or 0 when the device does not report one.
func (v *FileVolume) Size() int64 {
	return v.size
}

// Offset returns the byte offset of the volume within the underlying device.
func (v *FileVolume) Offset() int64 {
	return v.offset
}

// Close releases the handle.
func (v *FileVolume) Close() error {
	if v.file == nil {
		return nil
	}
	err := v.file.Close()
	v.file = nil
	return err
}

// Opener opens volumes using a Config. It satisfies interfaces.VolumeOpener.
type Opener struct {
	Config *Config
	Logger logrus.FieldLogger
}

var _ interfaces.VolumeOpener = (*Opener)(nil)

// Open resolves designator, opens it read-only, and applies the sector size and partition
// settings from the config.
func (o *Opener) Open(designator string) (interfaces.Volume, error) {
	return OpenVolume(designator, o.Config, o.Logger)
}

// OpenVolume opens a drive letter, device path, or image file as a volume.
func OpenVolume(designator string, cfg *Config, logger logrus.FieldLogger) (*FileVolume, error) {
	if cfg == nil {
		cfg = &Config{Partition: NoPartition}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	path := ResolveDesignator(designator)
	if path == "" {
		return nil, fmt.Errorf("empty volume designator")
	}

	file, err := openRaw(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume %s: %w", path, err)
	}

	vol := &FileVolume{file: file, path: path}

	detected, size := probeDevice(file)
	vol.size = size
	switch {
	case cfg.SectorSize != 0:
		vol.sectorSize = cfg.SectorSize
	case detected != 0:
		vol.sectorSize = detected
	default:
		vol.sectorSize = DefaultSectorSize
	}

	if cfg.Partition != NoPartition {
		part, err := FindPartition(path, cfg.Partition)
		if err != nil {
			file.Close()
			return nil, err
		}
		vol.offset = part.Start
		vol.size = part.Size
		vol.bounded = true
		logger.WithFields(logrus.Fields{
			"partition": part.Index,
			"offset":    part.Start,
		}).Debug("Using partition")
	}

	logger.WithFields(logrus.Fields{
		"path":        path,
		"sector_size": vol.sectorSize,
		"size":        vol.size,
	}).Debug("Opened volume")

	return vol, nil
}

// ResolveDesignator maps a bare drive letter ("C" or "C:") to the Windows raw volume path
// \\.\C: and returns every other designator unchanged.
func ResolveDesignator(designator string) string {
	d := strings.TrimSpace(designator)
	switch {
	case len(d) == 1 && isDriveLetter(d[0]):
		return `\\.\` + strings.ToUpper(d) + ":"
	case len(d) == 2 && isDriveLetter(d[0]) && d[1] == ':':
		return `\\.\` + strings.ToUpper(d)
	}
	return d
}

func isDriveLetter(b byte) bool {
	return b < 0x80 && unicode.IsLetter(rune(b))
}

// statSize returns the size of a regular file, or 0 for devices.
func statSize(file *os.File) int64 {
	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}
