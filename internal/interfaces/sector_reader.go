// File: internal/interfaces/sector_reader.go
package interfaces

import "io"

// SectorReader provides sector-granular access to an already-open, read-only volume
type SectorReader interface {
	// ReadSectors reads count consecutive sectors starting at the absolute sector start
	ReadSectors(start uint64, count uint32) ([]byte, error)

	// BytesPerSector returns the sector size reported by the underlying device
	BytesPerSector() uint32
}

// Volume is an open volume handle owned by the caller
type Volume interface {
	SectorReader

	// Path returns the device path or image file the volume was opened from
	Path() string

	// Size returns the size in bytes of the readable area, or 0 when unknown
	Size() int64

	// Close releases the underlying handle
	Close() error
}

// VolumeOpener opens volumes from a drive designator, device path or image file
type VolumeOpener interface {
	// Open opens the volume for reading
	Open(designator string) (Volume, error)
}

// SinkFactory acquires byte-append destinations for recovered data
type SinkFactory interface {
	// Create opens the destination identified by path for binary writing
	Create(path string) (io.WriteCloser, error)
}
