package types

import "errors"

// Geometry errors. Any of these prevents a volume from being scanned.
var (
	ErrTooSmall          = errors.New("boot sector buffer smaller than 512 bytes")
	ErrSignatureMismatch = errors.New("boot sector OEM id is not NTFS")
	ErrInvalidGeometry   = errors.New("boot sector geometry is invalid")
)

// Record errors.
var (
	ErrBadSignature  = errors.New("file record signature mismatch")
	ErrFixupMismatch = errors.New("update sequence mismatch")
)

// Attribute extraction errors.
var (
	ErrNotFound  = errors.New("attribute not found")
	ErrTruncated = errors.New("attribute data truncated")
)
