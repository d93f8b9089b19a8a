package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/mft"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/parsers/runlist"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// Scanner examines MFT indices [start, start+maxEntries) once each and yields records whose
// in-use flag is clear. Unreadable or undecodable indices are counted and skipped.
type Scanner struct {
	session *Session
	opts    ScanOptions
	logger  logrus.FieldLogger

	pos   uint64
	end   uint64
	stats ScanStats
}

// NewScanner prepares a scan. When opts.MaxEntries is zero the range runs to the end of
// the MFT as recorded in $MFT, or is empty if that cannot be determined.
func NewScanner(session *Session, opts ScanOptions, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.ProgressInterval == 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	count := opts.MaxEntries
	if count == 0 {
		total, err := session.MFTRecordCount()
		if err != nil {
			logger.WithError(err).Warn("Could not size the MFT; nothing to scan")
		} else if total > opts.Start {
			count = total - opts.Start
		}
	}

	end := opts.Start + count
	if end < opts.Start {
		end = ^uint64(0)
	}

	return &Scanner{
		session: session,
		opts:    opts,
		logger:  logger,
		pos:     opts.Start,
		end:     end,
	}
}

// Next returns the next deleted file record. ok is false once the range is exhausted.
func (s *Scanner) Next() (types.DeletedFileRecord, bool) {
	for s.pos < s.end {
		if record, ok := s.step(); ok {
			return record, true
		}
	}
	return types.DeletedFileRecord{}, false
}

// Position returns the next index to be examined.
func (s *Scanner) Position() uint64 {
	return s.pos
}

// Total returns the number of indices in the scan range.
func (s *Scanner) Total() uint64 {
	return s.end - s.opts.Start
}

// Stats returns the counters accumulated so far.
func (s *Scanner) Stats() ScanStats {
	return s.stats
}

// ScanAll runs the scan to completion. It stops early with ctx.Err() when ctx is done,
// returning the records found up to that point.
func (s *Scanner) ScanAll(ctx context.Context, progress ProgressFunc) ([]types.DeletedFileRecord, error) {
	var records []types.DeletedFileRecord
	total := s.Total()

	for s.pos < s.end {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		if record, ok := s.step(); ok {
			records = append(records, record)
		}

		if s.stats.Examined%s.opts.ProgressInterval == 0 {
			s.logger.WithFields(logrus.Fields{
				"examined": s.stats.Examined,
				"total":    total,
				"found":    len(records),
			}).Info("Scan progress")
			if progress != nil {
				progress(s.stats.Examined, total, len(records))
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"examined":       s.stats.Examined,
		"found":          s.stats.Found,
		"read_errors":    s.stats.ReadErrors,
		"bad_signatures": s.stats.BadSignatures,
	}).Info("Scan finished")
	if progress != nil {
		progress(s.stats.Examined, total, len(records))
	}

	return records, nil
}

// step examines exactly one index and advances the position.
func (s *Scanner) step() (types.DeletedFileRecord, bool) {
	index := s.pos
	s.pos++
	s.stats.Examined++

	record, reason := s.inspect(index)
	if reason != "" {
		s.logger.WithFields(logrus.Fields{"index": index, "reason": reason}).Debug("Skipped record")
		return types.DeletedFileRecord{}, false
	}
	s.stats.Found++
	return record, true
}

// inspect decodes one record. A non-empty reason means the record is not reported.
func (s *Scanner) inspect(index uint64) (types.DeletedFileRecord, string) {
	buf, err := s.session.ReadRecord(index)
	if err != nil {
		s.stats.ReadErrors++
		return types.DeletedFileRecord{}, "read failed: " + err.Error()
	}

	header, err := mft.DecodeFileRecordHeader(buf)
	if err != nil {
		s.stats.BadSignatures++
		return types.DeletedFileRecord{}, "bad signature"
	}

	if s.opts.ApplyFixups {
		if err := mft.ApplyFixups(buf, header); err != nil {
			s.stats.FixupErrors++
			s.logger.WithFields(logrus.Fields{"index": index}).WithError(err).Debug("Fixups not applied")
		}
	}

	if header.InUse() {
		s.stats.InUse++
		return types.DeletedFileRecord{}, "in use"
	}

	name, err := mft.ExtractFileName(buf, header)
	if err != nil {
		s.stats.Unnamed++
		return types.DeletedFileRecord{}, "no file name: " + err.Error()
	}

	record := types.DeletedFileRecord{
		MFTIndex:       index,
		SequenceNumber: header.SequenceNumber,
		FileName:       name.Name,
		Namespace:      name.Namespace,
		Parent:         name.Parent,
		IsDirectory:    header.IsDirectory(),
	}

	if data, err := mft.FindDataAttribute(buf, header); err == nil {
		record.FileSize = mft.DataSize(data)
		record.Resident = !data.NonResident
		record.DataFlags = data.Flags
		record.Runs = runlist.DecodeRuns(buf, data)
	}

	if ts, err := mft.ExtractTimestamps(buf, header); err == nil {
		record.CreationTime = ts.Created
		record.ModificationTime = ts.Modified
	}

	if id, err := mft.ExtractObjectID(buf, header); err == nil {
		record.ObjectID = &id
	} else if !errors.Is(err, types.ErrNotFound) {
		s.logger.WithFields(logrus.Fields{"index": index}).WithError(err).Debug("Unreadable object id")
	}

	if record.IsDirectory || record.FileSize == 0 {
		s.stats.Excluded++
		return types.DeletedFileRecord{}, "directory or empty"
	}
	return record, ""
}
