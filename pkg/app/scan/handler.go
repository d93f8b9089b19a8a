package scan

import (
	"fmt"
	"time"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/catalog"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/services"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/info"
)

// Handle processes a scan request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Open the volume and decode its geometry
	vol, session, err := app.OpenSession(ctx, req.Target, req.Config)
	if err != nil {
		return nil, err
	}
	defer vol.Close()

	ctx.Log(fmt.Sprintf("Scanning %s for deleted files", req.Target.String()))

	// 3. Walk the MFT
	records, stats, scanned, err := Scan(ctx, session, req)
	if err != nil {
		return nil, err
	}

	// 4. Filter for display
	response := &Response{
		Device:   vol.Path(),
		Geometry: info.NewGeometryInfo(session.Geometry()),
		Stats:    stats,
		Records:  records,
		Range:    ScanRange{Start: req.Config.StartEntry, Entries: scanned},
	}
	keep := newFilter(req)
	for i, record := range records {
		if keep.match(record) {
			response.Files = append(response.Files, NewFileResult(i, record))
		}
	}
	response.TotalFound = len(response.Files)

	// 5. Optionally keep the unfiltered list for later recovery
	if req.Config.Catalog != "" {
		id, err := saveToCatalog(ctx, req, response)
		if err != nil {
			return nil, err
		}
		response.CatalogScanID = id
	}
	response.ScanTime = time.Since(startTime)

	ctx.Log(fmt.Sprintf("Scan completed: %d deleted files (%d shown) in %v",
		len(records), response.TotalFound, response.ScanTime.Round(time.Millisecond)))

	return response, nil
}

// Scan runs the scanner over the request range on an open session, reporting progress
// through ctx. It returns the records, the counters, and the size of the range.
func Scan(ctx *app.Context, session *services.Session, req *Request) ([]types.DeletedFileRecord, services.ScanStats, uint64, error) {
	scanner := services.NewScanner(session, services.ScanOptions{
		Start:       req.Config.StartEntry,
		MaxEntries:  req.Config.MaxEntries,
		ApplyFixups: req.Config.ApplyFixups,
	}, ctx.Logger)

	started := time.Now()
	records, err := scanner.ScanAll(ctx, func(examined, total uint64, found int) {
		ctx.Progress(app.ProgressUpdate{
			Message:     "Scanning MFT",
			Completed:   int64(examined),
			Total:       int64(total),
			Found:       found,
			StartedAt:   started,
			ElapsedTime: time.Since(started),
		})
	})
	if err != nil {
		return nil, scanner.Stats(), scanner.Total(), app.NewError(app.ErrCodeCancelled, "scan cancelled", err)
	}
	return records, scanner.Stats(), scanner.Total(), nil
}

// saveToCatalog stores the unfiltered records under the device designator the user gave,
// which is what recover looks them up by.
func saveToCatalog(ctx *app.Context, req *Request, response *Response) (int64, error) {
	c, err := catalog.Open(req.Config.Catalog, ctx.Logger)
	if err != nil {
		return 0, app.NewError(app.ErrCodeCatalog, "failed to open catalog", err)
	}
	defer c.Close()

	id, err := c.SaveScan(catalog.Scan{
		Device:     req.Target.Path,
		Partition:  req.Target.Partition,
		StartEntry: response.Range.Start,
		Entries:    response.Range.Entries,
		Examined:   response.Stats.Examined,
	}, response.Records)
	if err != nil {
		return 0, app.NewError(app.ErrCodeCatalog, "failed to save scan", err)
	}
	return id, nil
}
