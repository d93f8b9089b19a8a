package recovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/catalog"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/services"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/scan"
)

// Handle locates the requested deleted file and copies its clusters to the output.
// Engine outcomes are reported in the response; see Response.Err.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Open the volume
	vol, session, err := app.OpenSession(ctx, req.Target, req.Config)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	// 3. Find the record
	record, index, err := selectRecord(ctx, session, req)
	if err != nil {
		return nil, err
	}

	// 4. Replay its runs
	path := outputPath(req.OutputPath, record)
	ctx.Log(fmt.Sprintf("Recovering %s (MFT %d) to %s", record.FileName, record.MFTIndex, path))

	engine := services.NewRecoveryEngine(session, services.RecoveryOptions{
		ChunkSectors: req.Config.ChunkSectors,
		Hash:         req.Config.Hash,
		Sinks:        &device.FileSinkFactory{Overwrite: req.Config.Overwrite, MkdirAll: true},
	}, ctx.Logger)
	result := engine.RecoverToPath(record, path)

	response := &Response{
		Device:       vol.Path(),
		File:         scan.NewFileResult(index, record),
		OutputPath:   path,
		Outcome:      result.Outcome,
		BytesWritten: result.BytesWritten,
		DeclaredSize: result.DeclaredSize,
		RunsReplayed: result.RunsReplayed,
		Hash:         req.Config.Hash,
		Digest:       result.Digest,
		Duration:     time.Since(startTime),
		cause:        result.Err,
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}
	return response, nil
}

// selectRecord finds the record named by req and returns it with its list position.
// An index is resolved from the catalog when one is configured, otherwise by scanning.
func selectRecord(ctx *app.Context, session *services.Session, req *Request) (types.DeletedFileRecord, int, error) {
	if req.Index != NoSelection && req.Config.Catalog != "" {
		return catalogRecord(ctx, req)
	}

	scanReq := &scan.Request{Target: req.Target, Config: req.Config}
	if req.Entry != NoSelection {
		scanReq.Config.StartEntry = uint64(req.Entry)
		scanReq.Config.MaxEntries = 1
	}

	records, _, _, err := scan.Scan(ctx, session, scanReq)
	if err != nil {
		return types.DeletedFileRecord{}, 0, err
	}

	if req.Entry != NoSelection {
		if len(records) == 0 {
			return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeRecordNotFound,
				fmt.Sprintf("MFT entry %d is not a recoverable deleted file", req.Entry), nil)
		}
		return records[0], 0, nil
	}

	if req.Index >= len(records) {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeRecordNotFound,
			fmt.Sprintf("index %d is out of range: the scan found %d deleted files", req.Index, len(records)), nil)
	}
	return records[req.Index], req.Index, nil
}

// catalogRecord reads position req.Index of the latest stored scan of the target.
func catalogRecord(ctx *app.Context, req *Request) (types.DeletedFileRecord, int, error) {
	c, err := catalog.Open(req.Config.Catalog, ctx.Logger)
	if err != nil {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeCatalog, "failed to open catalog", err)
	}
	defer c.Close()

	stored, err := c.LatestScan(req.Target.Path, req.Target.Partition)
	if errors.Is(err, catalog.ErrNoScan) {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeRecordNotFound,
			fmt.Sprintf("the catalog has no scan of %s", req.Target.String()), err)
	}
	if err != nil {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeCatalog, "failed to read catalog", err)
	}

	record, err := c.Record(stored.ID, req.Index)
	if errors.Is(err, catalog.ErrNoRecord) {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeRecordNotFound,
			fmt.Sprintf("index %d is out of range: scan %d found %d deleted files", req.Index, stored.ID, stored.Found), err)
	}
	if err != nil {
		return types.DeletedFileRecord{}, 0, app.NewError(app.ErrCodeCatalog, "failed to read catalog", err)
	}

	ctx.Debug(fmt.Sprintf("Index %d resolved from catalog scan %d", req.Index, stored.ID))
	return record, req.Index, nil
}

// outputPath joins the record name onto dest when dest is a directory.
func outputPath(dest string, record types.DeletedFileRecord) string {
	if dest == "" {
		return ""
	}
	if strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, string(os.PathSeparator)) {
		return filepath.Join(dest, SafeName(record))
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, SafeName(record))
	}
	return dest
}
