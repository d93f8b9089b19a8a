package types

import "github.com/google/uuid"

// DeletedFileRecord is the scanner's result for one deleted MFT record.
// Records are produced once and never modified.
type DeletedFileRecord struct {
	MFTIndex       uint64
	SequenceNumber uint16

	FileName  string
	Namespace FileNameNamespace
	Parent    FileReference

	// FileSize is the declared logical size of the unnamed $DATA stream.
	FileSize    uint64
	IsDirectory bool
	// Resident is true when $DATA lives inside the record and has no runs.
	Resident  bool
	DataFlags AttributeFlags

	// Runs is empty when the record has no decodable extents.
	Runs RunList

	CreationTime     FileTime
	ModificationTime FileTime

	// ObjectID is set when the record carries an $OBJECT_ID attribute.
	ObjectID *uuid.UUID
}

// Recoverable reports whether the record has any extents to replay.
func (r DeletedFileRecord) Recoverable() bool {
	return len(r.Runs) > 0
}

// IsCompressed reports whether $DATA is flagged compressed. Such data is recovered raw.
func (r DeletedFileRecord) IsCompressed() bool {
	return r.DataFlags&AttributeFlagCompressed != 0
}

// IsEncrypted reports whether $DATA is flagged encrypted. Such data is recovered raw.
func (r DeletedFileRecord) IsEncrypted() bool {
	return r.DataFlags&AttributeFlagEncrypted != 0
}
