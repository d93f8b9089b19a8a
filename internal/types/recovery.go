package types

// RecoveryOutcome is the terminal state of one recovery attempt.
type RecoveryOutcome int

const (
	// RecoverySuccess means exactly the declared size was written.
	RecoverySuccess RecoveryOutcome = iota
	// RecoveryPartial means the runs ran out before the declared size was reached.
	RecoveryPartial
	// RecoveryFailedRead means a sector read failed; output stops at the failure.
	RecoveryFailedRead
	// RecoveryInvalidDataRun means the record has no runs to replay.
	RecoveryInvalidDataRun
	// RecoveryFailedWrite means the output sink rejected a write or could not be opened.
	RecoveryFailedWrite
	// RecoveryInvalidPath means no usable output destination was given.
	RecoveryInvalidPath
)

func (o RecoveryOutcome) String() string {
	switch o {
	case RecoverySuccess:
		return "Success"
	case RecoveryPartial:
		return "Partial"
	case RecoveryFailedRead:
		return "FailedRead"
	case RecoveryInvalidDataRun:
		return "InvalidDataRun"
	case RecoveryFailedWrite:
		return "FailedWrite"
	case RecoveryInvalidPath:
		return "InvalidPath"
	default:
		return "Unknown"
	}
}

// MarshalText lets the outcome render by name in JSON and YAML output.
func (o RecoveryOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RecoveryResult is the structured report of one recovery attempt.
type RecoveryResult struct {
	Outcome      RecoveryOutcome
	BytesWritten uint64
	DeclaredSize uint64
	// RunsReplayed counts runs that were read completely or up to the declared size.
	RunsReplayed int
	// Digest is the hex digest of the written bytes when hashing was requested.
	Digest string
	// Err holds the I/O error behind FailedRead or FailedWrite.
	Err error
}

// Complete reports whether the declared size was fully written.
func (r RecoveryResult) Complete() bool {
	return r.Outcome == RecoverySuccess
}
