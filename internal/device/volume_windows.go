//go:build windows

package device

import (
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

const ioctlDiskGetDriveGeometry = 0x70000

type diskGeometry struct {
	Cylinders         int64
	MediaType         int32
	TracksPerCylinder int32
	SectorsPerTrack   int32
	BytesPerSector    int32
}

// openRaw opens raw volume paths through CreateFile with shared access, since a mounted
// volume is held open by the system. Plain image files use os.Open.
func openRaw(path string) (*os.File, error) {
	if !strings.HasPrefix(path, `\\.\`) {
		return os.Open(path)
	}
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	handle, err := windows.CreateFile(name, windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, nil,
		windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateFile %s: %w", path, err)
	}
	return os.NewFile(uintptr(handle), path), nil
}

// probeDevice queries the drive geometry of raw volumes. Image files report no sector size.
func probeDevice(file *os.File) (uint32, int64) {
	if !strings.HasPrefix(file.Name(), `\\.\`) {
		return 0, statSize(file)
	}

	var geometry diskGeometry
	var returned uint32
	err := windows.DeviceIoControl(windows.Handle(file.Fd()), ioctlDiskGetDriveGeometry,
		nil, 0, (*byte)(unsafe.Pointer(&geometry)), uint32(unsafe.Sizeof(geometry)), &returned, nil)
	if err != nil || geometry.BytesPerSector <= 0 {
		return 0, 0
	}
	size := geometry.Cylinders * int64(geometry.TracksPerCylinder) *
		int64(geometry.SectorsPerTrack) * int64(geometry.BytesPerSector)
	return uint32(geometry.BytesPerSector), size
}
