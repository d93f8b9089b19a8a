package testutil

import (
	"errors"
	"fmt"
	"os"
)

// ErrInjectedRead is returned for reads that touch a failing sector range.
var ErrInjectedRead = errors.New("injected read failure")

// ReadCall records one ReadSectors invocation.
type ReadCall struct {
	Start uint64
	Count uint32
}

type sectorRange struct {
	start, end uint64 // end is exclusive
}

// MemoryVolume is a sparse, in-memory volume that implements interfaces.Volume.
// Sectors that were never written read back as zeros.
type MemoryVolume struct {
	sectorSize   uint32
	totalSectors uint64
	sectors      map[uint64][]byte
	failing      []sectorRange
	closed       bool

	// Reads lists every ReadSectors call in order.
	Reads []ReadCall
}

// NewMemoryVolume creates an empty volume of totalSectors sectors.
func NewMemoryVolume(sectorSize uint32, totalSectors uint64) *MemoryVolume {
	return &MemoryVolume{
		sectorSize:   sectorSize,
		totalSectors: totalSectors,
		sectors:      make(map[uint64][]byte),
	}
}

// WriteSectors stores data starting at sector start, padding the final sector with zeros.
func (m *MemoryVolume) WriteSectors(start uint64, data []byte) {
	size := int(m.sectorSize)
	for i := 0; i*size < len(data); i++ {
		sector := make([]byte, size)
		copy(sector, data[i*size:])
		m.sectors[start+uint64(i)] = sector
	}
}

// WriteBytes stores data at an absolute byte offset, which may fall mid-sector.
func (m *MemoryVolume) WriteBytes(offset uint64, data []byte) {
	size := uint64(m.sectorSize)
	for len(data) > 0 {
		sectorNum := offset / size
		within := offset % size
		sector, ok := m.sectors[sectorNum]
		if !ok {
			sector = make([]byte, size)
			m.sectors[sectorNum] = sector
		}
		n := copy(sector[within:], data)
		data = data[n:]
		offset += uint64(n)
	}
}

// FailSectors makes every read that overlaps [start, end) fail.
func (m *MemoryVolume) FailSectors(start, end uint64) {
	m.failing = append(m.failing, sectorRange{start: start, end: end})
}

// ReadSectors implements interfaces.SectorReader.
func (m *MemoryVolume) ReadSectors(start uint64, count uint32) ([]byte, error) {
	m.Reads = append(m.Reads, ReadCall{Start: start, Count: count})
	if m.closed {
		return nil, errors.New("volume closed")
	}
	end := start + uint64(count)
	if end > m.totalSectors {
		return nil, fmt.Errorf("read past end of volume: sectors %d-%d of %d", start, end, m.totalSectors)
	}
	for _, r := range m.failing {
		if start < r.end && r.start < end {
			return nil, fmt.Errorf("%w at sector %d", ErrInjectedRead, start)
		}
	}

	buf := make([]byte, int(count)*int(m.sectorSize))
	for i := uint64(0); i < uint64(count); i++ {
		if sector, ok := m.sectors[start+i]; ok {
			copy(buf[i*uint64(m.sectorSize):], sector)
		}
	}
	return buf, nil
}

// BytesPerSector implements interfaces.SectorReader.
func (m *MemoryVolume) BytesPerSector() uint32 {
	return m.sectorSize
}

// Path implements interfaces.Volume.
func (m *MemoryVolume) Path() string {
	return "memory"
}

// Size implements interfaces.Volume.
func (m *MemoryVolume) Size() int64 {
	return int64(m.totalSectors) * int64(m.sectorSize)
}

// Close implements interfaces.Volume.
func (m *MemoryVolume) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryVolume) Closed() bool {
	return m.closed
}

// ReadsIn returns the reads whose start sector lies within [start, end).
func (m *MemoryVolume) ReadsIn(start, end uint64) []ReadCall {
	var calls []ReadCall
	for _, c := range m.Reads {
		if c.Start >= start && c.Start < end {
			calls = append(calls, c)
		}
	}
	return calls
}

// WriteImage saves the volume as a sparse image file at path.
func (m *MemoryVolume) WriteImage(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Truncate(m.Size()); err != nil {
		f.Close()
		return err
	}
	for sector, data := range m.sectors {
		if _, err := f.WriteAt(data, int64(sector)*int64(m.sectorSize)); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
