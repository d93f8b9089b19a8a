package services

import (
	"fmt"
	"math/bits"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/boot"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/mft"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// Session binds a sector reader to the geometry decoded from its boot sector.
// The geometry is read once and never changes.
type Session struct {
	reader   interfaces.SectorReader
	geometry types.VolumeGeometry
	logger   logrus.FieldLogger
}

// NewSession reads and decodes the boot sector of reader.
func NewSession(reader interfaces.SectorReader, logger logrus.FieldLogger) (*Session, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Session{reader: reader, logger: logger}

	sector, err := s.readBytes(0, types.BootSectorSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot sector: %w", err)
	}

	geometry, err := boot.DecodeBootSector(sector)
	if err != nil {
		return nil, fmt.Errorf("failed to decode boot sector: %w", err)
	}
	s.geometry = geometry

	if !geometry.HasBootSignature {
		logger.Warn("Boot sector is missing the 0xAA55 end marker")
	}
	if geometry.BytesPerSector != reader.BytesPerSector() {
		logger.WithFields(logrus.Fields{
			"boot_sector": geometry.BytesPerSector,
			"device":      reader.BytesPerSector(),
		}).Warn("Boot sector and device disagree on sector size")
	}

	logger.WithFields(logrus.Fields{
		"bytes_per_cluster": geometry.BytesPerCluster,
		"record_size":       geometry.FileRecordSize,
		"mft_cluster":       geometry.MFTCluster,
	}).Debug("Decoded boot sector")

	return s, nil
}

// Geometry returns the decoded volume geometry.
func (s *Session) Geometry() types.VolumeGeometry {
	return s.geometry
}

// Reader returns the underlying sector reader.
func (s *Session) Reader() interfaces.SectorReader {
	return s.reader
}

// RecordOffset returns the byte offset of MFT record index, assuming a contiguous MFT.
func (s *Session) RecordOffset(index uint64) (uint64, error) {
	g := s.geometry
	hi, off := bits.Mul64(index, uint64(g.FileRecordSize))
	mftStart := g.MFTStartSector * uint64(g.BytesPerSector)
	sum, carry := bits.Add64(off, mftStart, 0)
	if hi != 0 || carry != 0 {
		return 0, fmt.Errorf("record %d lies beyond the addressable range", index)
	}
	return sum, nil
}

// ReadRecord returns a copy of MFT record index, sliced out of the sectors that hold it.
func (s *Session) ReadRecord(index uint64) ([]byte, error) {
	off, err := s.RecordOffset(index)
	if err != nil {
		return nil, err
	}
	return s.readBytes(off, uint64(s.geometry.FileRecordSize))
}

// MFTRecordCount sizes the MFT from the $DATA attribute of its own record 0.
func (s *Session) MFTRecordCount() (uint64, error) {
	buf, err := s.ReadRecord(0)
	if err != nil {
		return 0, fmt.Errorf("failed to read $MFT record: %w", err)
	}
	header, err := mft.DecodeFileRecordHeader(buf)
	if err != nil {
		return 0, fmt.Errorf("$MFT record: %w", err)
	}
	size, err := mft.ExtractFileSize(buf, header)
	if err != nil {
		return 0, fmt.Errorf("$MFT size: %w", err)
	}
	return size / uint64(s.geometry.FileRecordSize), nil
}

// readBytes reads length bytes at byte offset off, in units of the reader's sector size.
func (s *Session) readBytes(off, length uint64) ([]byte, error) {
	bps := uint64(s.reader.BytesPerSector())
	if bps == 0 {
		return nil, fmt.Errorf("device reports zero sector size")
	}
	start := off / bps
	intra := off % bps
	count := (intra + length + bps - 1) / bps
	if count > uint64(^uint32(0)) {
		return nil, fmt.Errorf("read of %d bytes is too large", length)
	}

	data, err := s.reader.ReadSectors(start, uint32(count))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) < intra+length {
		return nil, fmt.Errorf("device returned %d bytes, want %d", len(data), intra+length)
	}
	out := make([]byte, length)
	copy(out, data[intra:intra+length])
	return out, nil
}
