package services

import "github.com/deploymenttheory/go-ntfs-recovery/internal/interfaces"

// ScanOptions selects the record range and decoding behavior of a scan.
type ScanOptions struct {
	// Start is the first MFT index examined.
	Start uint64
	// MaxEntries is the number of indices examined. Zero sizes the range from the
	// $MFT record itself.
	MaxEntries uint64
	// ApplyFixups restores update sequence bytes before decoding each record.
	ApplyFixups bool
	// ProgressInterval is the number of indices between progress reports.
	ProgressInterval uint64
}

// DefaultProgressInterval is the number of indices between progress reports.
const DefaultProgressInterval = 1000

// ScanStats counts what happened to each examined index.
type ScanStats struct {
	Examined      uint64 `json:"examined" yaml:"examined"`
	ReadErrors    uint64 `json:"read_errors" yaml:"read_errors"`
	BadSignatures uint64 `json:"bad_signatures" yaml:"bad_signatures"`
	FixupErrors   uint64 `json:"fixup_errors" yaml:"fixup_errors"`
	InUse         uint64 `json:"in_use" yaml:"in_use"`
	Unnamed       uint64 `json:"unnamed" yaml:"unnamed"`
	Excluded      uint64 `json:"excluded" yaml:"excluded"`
	Found         uint64 `json:"found" yaml:"found"`
}

// ProgressFunc receives scan progress: indices examined so far, the range size, and the
// number of deleted files found.
type ProgressFunc func(examined, total uint64, found int)

// RecoveryOptions configures the recovery engine.
type RecoveryOptions struct {
	// ChunkSectors caps the sectors read per device call.
	ChunkSectors uint32
	// Hash names a digest of the written bytes: md5, sha1, sha256, or empty for none.
	Hash string
	// Sinks opens output files for RecoverToPath.
	Sinks interfaces.SinkFactory
}

// DefaultChunkSectors is the read size used when RecoveryOptions.ChunkSectors is zero.
const DefaultChunkSectors = 256
