//go:build linux

package device

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

func openRaw(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY|unix.O_CLOEXEC, 0)
}

// probeDevice asks a block device for its logical sector size and size. Image files
// report no sector size.
func probeDevice(file *os.File) (uint32, int64) {
	info, err := file.Stat()
	if err != nil {
		return 0, 0
	}
	if info.Mode()&os.ModeDevice == 0 {
		return 0, statSize(file)
	}

	var sectorSize uint32
	if ssz, err := unix.IoctlGetInt(int(file.Fd()), unix.BLKSSZGET); err == nil && ssz > 0 {
		sectorSize = uint32(ssz)
	}
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		size = 0
	}
	return sectorSize, size
}
