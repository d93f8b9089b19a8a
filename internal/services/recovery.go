package services

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"math/bits"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// ErrInvalidPath reports an empty output destination.
var ErrInvalidPath = errors.New("no output destination")

// ErrNoRuns reports a record without cluster runs to replay.
var ErrNoRuns = errors.New("record has no data runs")

// RecoveryEngine copies the clusters of deleted files, in run order, into an output and
// stops at the declared file size.
type RecoveryEngine struct {
	session *Session
	opts    RecoveryOptions
	logger  logrus.FieldLogger
}

// NewRecoveryEngine creates an engine reading through session.
func NewRecoveryEngine(session *Session, opts RecoveryOptions, logger logrus.FieldLogger) *RecoveryEngine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.ChunkSectors == 0 {
		opts.ChunkSectors = DefaultChunkSectors
	}
	if opts.Sinks == nil {
		opts.Sinks = &device.FileSinkFactory{}
	}
	return &RecoveryEngine{session: session, opts: opts, logger: logger}
}

// RecoverToPath creates path through the sink factory and recovers record into it.
// The output is closed on every path. A close failure after a successful copy is
// reported as FailedWrite; otherwise it is attached to the result's error.
func (e *RecoveryEngine) RecoverToPath(record types.DeletedFileRecord, path string) types.RecoveryResult {
	if path == "" {
		return e.finish(record, types.RecoveryResult{Outcome: types.RecoveryInvalidPath, DeclaredSize: record.FileSize, Err: ErrInvalidPath})
	}
	if len(record.Runs) == 0 {
		return e.finish(record, types.RecoveryResult{Outcome: types.RecoveryInvalidDataRun, DeclaredSize: record.FileSize, Err: ErrNoRuns})
	}

	sink, err := e.opts.Sinks.Create(path)
	if err != nil {
		return e.finish(record, types.RecoveryResult{Outcome: types.RecoveryFailedWrite, DeclaredSize: record.FileSize, Err: err})
	}

	result := e.replay(record, sink)
	if cerr := sink.Close(); cerr != nil {
		closeErr := fmt.Errorf("closing %s: %w", path, cerr)
		switch {
		case result.Outcome == types.RecoverySuccess:
			result.Outcome = types.RecoveryFailedWrite
			result.Err = closeErr
		case result.Err == nil:
			result.Err = closeErr
		default:
			result.Err = errors.Join(result.Err, closeErr)
		}
	}
	return e.finish(record, result)
}

// Recover writes the file content of record to sink.
func (e *RecoveryEngine) Recover(record types.DeletedFileRecord, sink io.Writer) types.RecoveryResult {
	if sink == nil {
		return e.finish(record, types.RecoveryResult{Outcome: types.RecoveryInvalidPath, DeclaredSize: record.FileSize, Err: ErrInvalidPath})
	}
	if len(record.Runs) == 0 {
		return e.finish(record, types.RecoveryResult{Outcome: types.RecoveryInvalidDataRun, DeclaredSize: record.FileSize, Err: ErrNoRuns})
	}
	return e.finish(record, e.replay(record, sink))
}

func (e *RecoveryEngine) finish(record types.DeletedFileRecord, result types.RecoveryResult) types.RecoveryResult {
	entry := e.logger.WithFields(logrus.Fields{
		"index":   record.MFTIndex,
		"name":    record.FileName,
		"outcome": result.Outcome.String(),
		"written": result.BytesWritten,
		"size":    result.DeclaredSize,
	})
	if result.Err != nil {
		entry = entry.WithError(result.Err)
	}
	entry.Info("Recovery finished")
	return result
}

// replay performs the copy. Runs are visited in order; the first failing read or write
// ends the attempt and later runs are not touched.
func (e *RecoveryEngine) replay(record types.DeletedFileRecord, sink io.Writer) (result types.RecoveryResult) {
	result.DeclaredSize = record.FileSize

	out := sink
	var digest hash.Hash
	if e.opts.Hash != "" {
		h, err := newHash(e.opts.Hash)
		if err != nil {
			result.Outcome = types.RecoveryFailedWrite
			result.Err = err
			return result
		}
		digest = h
		out = io.MultiWriter(sink, digest)
	}
	defer func() {
		if digest != nil {
			result.Digest = hex.EncodeToString(digest.Sum(nil))
		}
	}()

	geometry := e.session.Geometry()
	bpc := uint64(geometry.BytesPerCluster)
	bps := uint64(e.session.Reader().BytesPerSector())
	remaining := record.FileSize

	for i, run := range record.Runs {
		if remaining == 0 {
			break
		}

		hi, runBytes := bits.Mul64(run.Clusters, bpc)
		if hi != 0 {
			result.Outcome = types.RecoveryFailedRead
			result.Err = fmt.Errorf("run %d length overflows", i)
			return result
		}

		e.logger.WithFields(logrus.Fields{
			"run":      i,
			"lcn":      run.LCN,
			"clusters": run.Clusters,
			"sparse":   run.Sparse,
		}).Debug("Replaying run")

		var written uint64
		var err error
		if run.Sparse {
			written, err = writeZeros(out, min(runBytes, remaining), uint64(e.opts.ChunkSectors)*bps)
			if err != nil {
				result.BytesWritten += written
				result.Outcome = types.RecoveryFailedWrite
				result.Err = err
				return result
			}
		} else {
			var outcome types.RecoveryOutcome
			written, outcome, err = e.copyRun(out, run, runBytes, remaining, bpc, bps)
			if err != nil {
				result.BytesWritten += written
				result.Outcome = outcome
				result.Err = err
				return result
			}
		}

		result.BytesWritten += written
		remaining -= written
		result.RunsReplayed++
	}

	if remaining == 0 {
		result.Outcome = types.RecoverySuccess
	} else {
		result.Outcome = types.RecoveryPartial
	}
	return result
}

// copyRun reads one allocated run in chunks and writes at most remaining bytes of it.
// Runs are addressed by byte, so a device sector larger than a cluster still yields the
// run's own bytes.
func (e *RecoveryEngine) copyRun(out io.Writer, run types.DataRun, runBytes, remaining, bpc, bps uint64) (uint64, types.RecoveryOutcome, error) {
	hi, startByte := bits.Mul64(run.LCN, bpc)
	if hi != 0 {
		return 0, types.RecoveryFailedRead, fmt.Errorf("LCN %d lies beyond the addressable range", run.LCN)
	}
	sector := startByte / bps
	skip := startByte % bps
	left := runBytes
	chunk := uint64(e.opts.ChunkSectors)

	var written uint64
	for left > 0 && written < remaining {
		n := min(chunk, (skip+left+bps-1)/bps)
		data, err := e.session.Reader().ReadSectors(sector, uint32(n))
		if err != nil {
			return written, types.RecoveryFailedRead, fmt.Errorf("reading sectors %d+%d: %w", sector, n, err)
		}
		if uint64(len(data)) <= skip {
			return written, types.RecoveryFailedRead, fmt.Errorf("reading sectors %d+%d: short read of %d bytes", sector, n, len(data))
		}

		data = data[skip:]
		skip = 0
		if uint64(len(data)) > left {
			data = data[:left]
		}
		want := min(uint64(len(data)), remaining-written)
		if _, err := out.Write(data[:want]); err != nil {
			return written, types.RecoveryFailedWrite, fmt.Errorf("writing output: %w", err)
		}
		written += want
		left -= uint64(len(data))
		sector += n
	}
	return written, types.RecoverySuccess, nil
}

var zeroChunk [64 * 1024]byte

func writeZeros(out io.Writer, length, chunk uint64) (uint64, error) {
	if chunk == 0 || chunk > uint64(len(zeroChunk)) {
		chunk = uint64(len(zeroChunk))
	}
	var written uint64
	for written < length {
		n := min(chunk, length-written)
		if _, err := out.Write(zeroChunk[:n]); err != nil {
			return written, fmt.Errorf("writing output: %w", err)
		}
		written += n
	}
	return written, nil
}

func newHash(name string) (hash.Hash, error) {
	switch name {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash %q", name)
	}
}
