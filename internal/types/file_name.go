package types

import "time"

// $FILE_NAME value layout, relative to the attribute value start.
const (
	FileNameParentOffset       = 0x00
	FileNameCreatedOffset      = 0x08
	FileNameModifiedOffset     = 0x10
	FileNameMFTModifiedOffset  = 0x18
	FileNameAccessedOffset     = 0x20
	FileNameAllocatedOffset    = 0x28
	FileNameRealSizeOffset     = 0x30
	FileNameFlagsOffset        = 0x38
	FileNameLengthOffset       = 0x40
	FileNameNamespaceOffset    = 0x41
	FileNameCharactersOffset   = 0x42
	FileNameMinimumValueLength = FileNameCharactersOffset
)

// $STANDARD_INFORMATION value layout.
const (
	StandardInfoCreatedOffset     = 0x00
	StandardInfoModifiedOffset    = 0x08
	StandardInfoMFTModifiedOffset = 0x10
	StandardInfoAccessedOffset    = 0x18
	StandardInfoMinimumLength     = 0x20
)

// ObjectIDLength is the size of the object GUID at the start of an $OBJECT_ID value.
const ObjectIDLength = 16

// FileNameNamespace identifies which naming convention a $FILE_NAME entry follows.
type FileNameNamespace uint8

const (
	NamespacePOSIX       FileNameNamespace = 0
	NamespaceWin32       FileNameNamespace = 1
	NamespaceDOS         FileNameNamespace = 2
	NamespaceWin32AndDOS FileNameNamespace = 3
)

func (n FileNameNamespace) String() string {
	switch n {
	case NamespacePOSIX:
		return "POSIX"
	case NamespaceWin32:
		return "Win32"
	case NamespaceDOS:
		return "DOS"
	case NamespaceWin32AndDOS:
		return "Win32&DOS"
	default:
		return "unknown"
	}
}

// FileName is a decoded resident $FILE_NAME value.
type FileName struct {
	Name      string
	Namespace FileNameNamespace
	Parent    FileReference
	Created   FileTime
	Modified  FileTime
}

// FileTime is a Windows FILETIME: 100ns ticks since 1601-01-01 UTC.
// The core carries it opaquely; Time is for display only.
type FileTime uint64

// filetimeUnixOffset is the number of 100ns ticks between 1601-01-01 and 1970-01-01.
const filetimeUnixOffset = 116444736000000000

// Time converts the tick count into a UTC time. Zero ticks map to the zero time.
func (ft FileTime) Time() time.Time {
	if ft == 0 {
		return time.Time{}
	}
	ticks := int64(ft) - filetimeUnixOffset
	return time.Unix(0, 0).UTC().Add(time.Duration(ticks) * 100)
}

// Timestamps holds the creation and modification ticks of a record.
type Timestamps struct {
	Created  FileTime
	Modified FileTime
}
