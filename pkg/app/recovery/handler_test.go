package recovery

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app/scan"
)

func fixture() *testutil.DeletedFileFixture {
	fx := testutil.NewDeletedFileFixture()
	testutil.WriteRecord(fx.Volume, fx.Boot, 51, testutil.NewRecord(1024, 0).
		AddFileName("notes.md", types.NamespaceWin32, 5).
		AddResidentData([]byte("# notes")).
		Bytes())
	return fx
}

func newContext(fx *testutil.DeletedFileFixture) *app.Context {
	logger, _ := test.NewNullLogger()
	ctx := app.NewContext()
	ctx.Logger = logger
	ctx.Opener = &testutil.Opener{Volume: fx.Volume}
	return ctx
}

func newRequest(out string) *Request {
	req := NewRequest()
	req.Target = app.DeviceTarget{Path: "img", Partition: device.NoPartition}
	req.Config = device.Config{
		Partition:    device.NoPartition,
		MaxEntries:   64,
		ChunkSectors: device.DefaultChunkSectors,
	}
	req.OutputPath = out
	return req
}

func TestHandle_ByEntry(t *testing.T) {
	fx := fixture()
	out := filepath.Join(t.TempDir(), "out.txt")
	req := newRequest(out)
	req.Entry = 40

	resp, err := Handle(newContext(fx), req)
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	assert.Equal(t, types.RecoverySuccess, resp.Outcome)
	assert.Equal(t, uint64(5000), resp.BytesWritten)
	assert.Equal(t, uint64(5000), resp.DeclaredSize)
	assert.Equal(t, 1, resp.RunsReplayed)
	assert.Equal(t, "deleted.txt", resp.File.Name)
	assert.Equal(t, out, resp.OutputPath)
	assert.Empty(t, resp.Error)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, fx.Content, got)
	assert.True(t, fx.Volume.Closed())
}

func TestHandle_ByIndexIntoDirectory(t *testing.T) {
	fx := fixture()
	dir := t.TempDir()
	req := newRequest(dir)
	req.Index = 0

	resp, err := Handle(newContext(fx), req)
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	assert.Equal(t, filepath.Join(dir, "deleted.txt"), resp.OutputPath)
	assert.Equal(t, 0, resp.File.Index)
	got, err := os.ReadFile(resp.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, fx.Content, got)
}

func TestHandle_CreatesMissingDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b") + string(os.PathSeparator)
	req := newRequest(dir)
	req.Entry = 40

	resp, err := Handle(newContext(fixture()), req)
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	assert.FileExists(t, filepath.Join(dir, "deleted.txt"))
}

func TestHandle_Hash(t *testing.T) {
	fx := fixture()
	req := newRequest(filepath.Join(t.TempDir(), "out.bin"))
	req.Entry = 40
	req.Config.Hash = "sha256"

	resp, err := Handle(newContext(fx), req)
	require.NoError(t, err)

	sum := sha256.Sum256(fx.Content)
	assert.Equal(t, hex.EncodeToString(sum[:]), resp.Digest)
	assert.Equal(t, "sha256", resp.Hash)
}

func TestHandle_Overwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(out, []byte("existing"), 0o644))

	req := newRequest(out)
	req.Entry = 40
	resp, err := Handle(newContext(fixture()), req)
	require.NoError(t, err)
	assert.Equal(t, types.RecoveryFailedWrite, resp.Outcome)
	assert.NotEmpty(t, resp.Error)

	var appErr *app.CommonError
	require.ErrorAs(t, resp.Err(), &appErr)
	assert.Equal(t, app.ErrCodeRecovery, appErr.Code)

	existing, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("existing"), existing)

	req.Config.Overwrite = true
	resp, err = Handle(newContext(fixture()), req)
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, got, 5000)
}

func TestHandle_ResidentFile(t *testing.T) {
	req := newRequest(filepath.Join(t.TempDir(), "notes.md"))
	req.Entry = 51

	resp, err := Handle(newContext(fixture()), req)
	require.NoError(t, err)
	assert.Equal(t, types.RecoveryInvalidDataRun, resp.Outcome)
	assert.Error(t, resp.Err())
	assert.NoFileExists(t, req.OutputPath)
}

func TestHandle_EmptyOutput(t *testing.T) {
	req := newRequest("")
	req.Entry = 40

	resp, err := Handle(newContext(fixture()), req)
	require.NoError(t, err)
	assert.Equal(t, types.RecoveryInvalidPath, resp.Outcome)
}

func TestHandle_RecordNotFound(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"entry is not deleted", func(r *Request) { r.Entry = 5 }},
		{"entry past the volume", func(r *Request) { r.Entry = 1 << 40 }},
		{"index out of range", func(r *Request) { r.Index = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t.TempDir())
			tt.mutate(req)

			_, err := Handle(newContext(testutil.NewDeletedFileFixture()), req)
			var appErr *app.CommonError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, app.ErrCodeRecordNotFound, appErr.Code)
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"index", func(r *Request) { r.Index = 3 }, false},
		{"entry", func(r *Request) { r.Entry = 40 }, false},
		{"neither", func(*Request) {}, true},
		{"both", func(r *Request) { r.Index = 0; r.Entry = 40 }, true},
		{"negative index", func(r *Request) { r.Index = -2 }, true},
		{"negative entry", func(r *Request) { r.Entry = -7 }, true},
		{"bad hash", func(r *Request) { r.Entry = 40; r.Config.Hash = "crc32" }, true},
		{"no device", func(r *Request) { r.Entry = 40; r.Target.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("out")
			tt.mutate(req)
			if tt.wantErr {
				assert.Error(t, req.Validate())
			} else {
				assert.NoError(t, req.Validate())
			}
		})
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		name   string
		record types.DeletedFileRecord
		want   string
	}{
		{"plain", types.DeletedFileRecord{FileName: "report.docx"}, "report.docx"},
		{"separators", types.DeletedFileRecord{FileName: `a/b\c:d`}, "a_b_c_d"},
		{"wildcards", types.DeletedFileRecord{FileName: `what?*.txt`}, "what__.txt"},
		{"control", types.DeletedFileRecord{FileName: "x\x01y"}, "x_y"},
		{"empty", types.DeletedFileRecord{MFTIndex: 77}, "mft-77.bin"},
		{"dots", types.DeletedFileRecord{MFTIndex: 9, FileName: ".."}, "mft-9.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.record))
		})
	}
}

func TestFormatOutput(t *testing.T) {
	resp := &Response{
		Device:       "memory",
		OutputPath:   "/tmp/deleted.txt",
		Outcome:      types.RecoveryPartial,
		BytesWritten: 4096,
		DeclaredSize: 5000,
		RunsReplayed: 1,
		Hash:         "md5",
		Digest:       "abc123",
	}
	resp.File.Name = "deleted.txt"
	resp.File.Runs = 1

	var table bytes.Buffer
	require.NoError(t, FormatOutput(&table, resp, "table"))
	assert.Contains(t, table.String(), "Partial")
	assert.Contains(t, table.String(), "4.0 KiB of 4.9 KiB")
	assert.Contains(t, table.String(), "abc123")

	var js bytes.Buffer
	require.NoError(t, FormatOutput(&js, resp, "json"))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "Partial", decoded["outcome"])
	assert.NotContains(t, decoded, "cause")

	var y bytes.Buffer
	require.NoError(t, FormatOutput(&y, resp, "yaml"))
	assert.Contains(t, y.String(), "outcome: Partial")

	assert.Error(t, FormatOutput(&bytes.Buffer{}, resp, "xml"))
}

func TestHandle_IndexFromCatalog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scans.db")

	scanReq := &scan.Request{Target: app.DeviceTarget{Path: "img", Partition: device.NoPartition}, Config: newRequest("").Config}
	scanReq.Config.Catalog = db
	_, err := scan.Handle(newContext(fixture()), scanReq)
	require.NoError(t, err)

	// The MFT record is gone from this copy; only the catalog still knows the file.
	fx := fixture()
	testutil.WriteRecord(fx.Volume, fx.Boot, 40, make([]byte, 1024))

	out := filepath.Join(t.TempDir(), "from-catalog.txt")
	req := newRequest(out)
	req.Index = 0
	req.Config.Catalog = db

	resp, err := Handle(newContext(fx), req)
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	assert.Equal(t, uint64(40), resp.File.MFTIndex)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, fx.Content, got)

	// A rescan no longer sees entry 40, so the same index lands on the next file.
	rescanned := fixture()
	testutil.WriteRecord(rescanned.Volume, rescanned.Boot, 40, make([]byte, 1024))
	req.Config.Catalog = ""
	req.Config.Overwrite = true
	resp, err = Handle(newContext(rescanned), req)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", resp.File.Name)
}

func TestHandle_CatalogMisses(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scans.db")
	scanReq := &scan.Request{Target: app.DeviceTarget{Path: "img", Partition: device.NoPartition}, Config: newRequest("").Config}
	scanReq.Config.Catalog = db
	_, err := scan.Handle(newContext(fixture()), scanReq)
	require.NoError(t, err)

	tests := []struct {
		name   string
		device string
		index  int
	}{
		{"unknown device", "other.img", 0},
		{"index past the stored scan", "img", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t.TempDir())
			req.Target.Path = tt.device
			req.Index = tt.index
			req.Config.Catalog = db

			_, err := Handle(newContext(fixture()), req)
			var appErr *app.CommonError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, app.ErrCodeRecordNotFound, appErr.Code)
		})
	}
}
