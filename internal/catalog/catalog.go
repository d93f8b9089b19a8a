// Package catalog keeps scan results in a SQLite database so deleted files can be listed
// and recovered later without walking the MFT again.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

var (
	// ErrNoScan reports a catalog without a scan of the requested device.
	ErrNoScan = errors.New("no scan recorded for device")
	// ErrNoRecord reports a list position outside the stored scan.
	ErrNoRecord = errors.New("no record at position")
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	device          TEXT    NOT NULL,
	partition_index INTEGER NOT NULL,
	start_entry     INTEGER NOT NULL,
	entries         INTEGER NOT NULL,
	examined        INTEGER NOT NULL,
	found           INTEGER NOT NULL,
	created_at      TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	scan_id    INTEGER NOT NULL REFERENCES scans(id),
	position   INTEGER NOT NULL,
	mft_index  INTEGER NOT NULL,
	sequence   INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	namespace  INTEGER NOT NULL,
	parent     INTEGER NOT NULL,
	size       INTEGER NOT NULL,
	directory  INTEGER NOT NULL,
	resident   INTEGER NOT NULL,
	data_flags INTEGER NOT NULL,
	created    INTEGER NOT NULL,
	modified   INTEGER NOT NULL,
	object_id  TEXT,
	PRIMARY KEY (scan_id, position)
);
CREATE TABLE IF NOT EXISTS runs (
	scan_id  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	seq      INTEGER NOT NULL,
	lcn      INTEGER NOT NULL,
	clusters INTEGER NOT NULL,
	sparse   INTEGER NOT NULL,
	PRIMARY KEY (scan_id, position, seq)
);
CREATE INDEX IF NOT EXISTS files_by_mft_index ON files (scan_id, mft_index);
`

// Scan describes one stored scan.
type Scan struct {
	ID         int64
	Device     string
	Partition  int
	StartEntry uint64
	Entries    uint64
	Examined   uint64
	Found      int
	CreatedAt  time.Time
}

// Catalog is an open scan database.
type Catalog struct {
	db     *sql.DB
	path   string
	logger logrus.FieldLogger
}

// Open opens or creates the catalog at path.
func Open(path string, logger logrus.FieldLogger) (*Catalog, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Catalog{db: db, path: path, logger: logger}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SaveScan stores scan and its records in list order and returns the new scan id.
// Everything is written in one transaction.
func (c *Catalog) SaveScan(scan Scan, records []types.DeletedFileRecord) (int64, error) {
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now()
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO scans (device, partition_index, start_entry, entries, examined, found, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scan.Device, scan.Partition, int64(scan.StartEntry), int64(scan.Entries), int64(scan.Examined),
		len(records), scan.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read scan id: %w", err)
	}

	fileStmt, err := tx.Prepare(`INSERT INTO files (scan_id, position, mft_index, sequence, name, namespace,
		parent, size, directory, resident, data_flags, created, modified, object_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer fileStmt.Close()

	runStmt, err := tx.Prepare(`INSERT INTO runs (scan_id, position, seq, lcn, clusters, sparse)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare run insert: %w", err)
	}
	defer runStmt.Close()

	for position, r := range records {
		var objectID sql.NullString
		if r.ObjectID != nil {
			objectID = sql.NullString{String: r.ObjectID.String(), Valid: true}
		}
		if _, err := fileStmt.Exec(scanID, position, int64(r.MFTIndex), int64(r.SequenceNumber), r.FileName,
			int64(r.Namespace), int64(r.Parent), int64(r.FileSize), r.IsDirectory, r.Resident,
			int64(r.DataFlags), int64(r.CreationTime), int64(r.ModificationTime), objectID); err != nil {
			return 0, fmt.Errorf("failed to insert MFT entry %d: %w", r.MFTIndex, err)
		}
		for seq, run := range r.Runs {
			if _, err := runStmt.Exec(scanID, position, seq, int64(run.LCN), int64(run.Clusters), run.Sparse); err != nil {
				return 0, fmt.Errorf("failed to insert run %d of MFT entry %d: %w", seq, r.MFTIndex, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"catalog": c.path,
		"scan_id": scanID,
		"records": len(records),
	}).Info("Scan saved to catalog")
	return scanID, nil
}

// LatestScan returns the most recent scan of device and partition.
func (c *Catalog) LatestScan(device string, partition int) (Scan, error) {
	row := c.db.QueryRow(`SELECT id, device, partition_index, start_entry, entries, examined, found, created_at
		FROM scans WHERE device = ? AND partition_index = ? ORDER BY id DESC LIMIT 1`, device, partition)

	var (
		scan                     Scan
		start, entries, examined int64
		created                  string
	)
	err := row.Scan(&scan.ID, &scan.Device, &scan.Partition, &start, &entries, &examined, &scan.Found, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, fmt.Errorf("%w: %s", ErrNoScan, device)
	}
	if err != nil {
		return Scan{}, fmt.Errorf("failed to read scan: %w", err)
	}

	scan.StartEntry = uint64(start)
	scan.Entries = uint64(entries)
	scan.Examined = uint64(examined)
	if scan.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Scan{}, fmt.Errorf("invalid scan timestamp %q: %w", created, err)
	}
	return scan, nil
}

// Record returns the record stored at position in the scan list.
func (c *Catalog) Record(scanID int64, position int) (types.DeletedFileRecord, error) {
	rows, err := c.db.Query(fileQuery+` AND position = ?`, scanID, position)
	if err != nil {
		return types.DeletedFileRecord{}, fmt.Errorf("failed to query record: %w", err)
	}
	records, err := c.collect(scanID, rows)
	if err != nil {
		return types.DeletedFileRecord{}, err
	}
	if len(records) == 0 {
		return types.DeletedFileRecord{}, fmt.Errorf("%w %d of scan %d", ErrNoRecord, position, scanID)
	}
	return records[0], nil
}

// Records returns every record of a scan in list order.
func (c *Catalog) Records(scanID int64) ([]types.DeletedFileRecord, error) {
	rows, err := c.db.Query(fileQuery+` ORDER BY position`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return c.collect(scanID, rows)
}

const fileQuery = `SELECT position, mft_index, sequence, name, namespace, parent, size, directory,
	resident, data_flags, created, modified, object_id FROM files WHERE scan_id = ?`

// collect decodes file rows and attaches their runs.
func (c *Catalog) collect(scanID int64, rows *sql.Rows) ([]types.DeletedFileRecord, error) {
	defer rows.Close()

	var (
		records   []types.DeletedFileRecord
		positions []int
	)
	for rows.Next() {
		var (
			r                                   types.DeletedFileRecord
			position                            int
			index, seq, namespace, parent, size int64
			flags, created, modified            int64
			objectID                            sql.NullString
		)
		if err := rows.Scan(&position, &index, &seq, &r.FileName, &namespace, &parent, &size,
			&r.IsDirectory, &r.Resident, &flags, &created, &modified, &objectID); err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		r.MFTIndex = uint64(index)
		r.SequenceNumber = uint16(seq)
		r.Namespace = types.FileNameNamespace(namespace)
		r.Parent = types.FileReference(parent)
		r.FileSize = uint64(size)
		r.DataFlags = types.AttributeFlags(flags)
		r.CreationTime = types.FileTime(created)
		r.ModificationTime = types.FileTime(modified)
		if objectID.Valid {
			id, err := uuid.Parse(objectID.String)
			if err != nil {
				return nil, fmt.Errorf("invalid object id %q: %w", objectID.String, err)
			}
			r.ObjectID = &id
		}
		records = append(records, r)
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	for i := range records {
		runs, err := c.runs(scanID, positions[i])
		if err != nil {
			return nil, err
		}
		records[i].Runs = runs
	}
	return records, nil
}

func (c *Catalog) runs(scanID int64, position int) (types.RunList, error) {
	rows, err := c.db.Query(`SELECT lcn, clusters, sparse FROM runs
		WHERE scan_id = ? AND position = ? ORDER BY seq`, scanID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs types.RunList
	for rows.Next() {
		var (
			lcn, clusters int64
			run           types.DataRun
		)
		if err := rows.Scan(&lcn, &clusters, &run.Sparse); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		run.LCN = uint64(lcn)
		run.Clusters = uint64(clusters)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}
