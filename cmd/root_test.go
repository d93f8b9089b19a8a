package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

// writeFixtureImage saves the deleted-file fixture as a volume image.
func writeFixtureImage(t *testing.T) (string, *testutil.DeletedFileFixture) {
	t.Helper()
	fx := testutil.NewDeletedFileFixture()
	path := filepath.Join(t.TempDir(), "volume.img")
	require.NoError(t, fx.Volume.WriteImage(path))
	return path, fx
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return stdout.String(), err
}

func TestScanCommand(t *testing.T) {
	img, _ := writeFixtureImage(t)

	out, err := execute(t, "scan", img, "--max-entries", "64", "-o", "json", "-q")
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			Index    int    `json:"index"`
			MFTIndex uint64 `json:"mft_index"`
			Name     string `json:"name"`
			Size     uint64 `json:"size"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, "deleted.txt", decoded.Files[0].Name)
	assert.Equal(t, uint64(40), decoded.Files[0].MFTIndex)
	assert.Equal(t, uint64(5000), decoded.Files[0].Size)
}

func TestRecoverCommand(t *testing.T) {
	img, fx := writeFixtureImage(t)
	dir := t.TempDir()

	out, err := execute(t, "recover", img, "--entry", "40", "--out", dir, "--hash", "md5", "-o", "yaml", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: Success")
	assert.Contains(t, out, "bytes_written: 5000")

	got, err := os.ReadFile(filepath.Join(dir, "deleted.txt"))
	require.NoError(t, err)
	assert.Equal(t, fx.Content, got)
}

func TestInfoCommand(t *testing.T) {
	img, _ := writeFixtureImage(t)

	out, err := execute(t, "info", img, "-o", "table", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Cluster size")
	assert.Contains(t, out, "4.0 KiB")
}

func TestInfoCommand_NotNTFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 64*1024), 0o644))

	_, err := execute(t, "info", path, "-q")
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeNotNTFS, appErr.Code)
}

func TestUnsupportedOutputFormat(t *testing.T) {
	img, _ := writeFixtureImage(t)
	_, err := execute(t, "info", img, "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	show := progressPrinter(&buf)

	show(app.ProgressUpdate{Message: "Scanning MFT", Completed: 500, Total: 1000, Found: 2})
	assert.Contains(t, buf.String(), "50%")
	assert.Contains(t, buf.String(), "2 found")
	assert.NotContains(t, buf.String(), "\n")
	assert.NotContains(t, buf.String(), "ETA")

	show(app.ProgressUpdate{Message: "Scanning MFT", Completed: 750, Total: 1000, Found: 2, ElapsedTime: 3 * time.Second})
	assert.Contains(t, buf.String(), "ETA 1s")

	show(app.ProgressUpdate{Message: "Scanning MFT", Completed: 1000, Total: 1000, Found: 3})
	assert.Contains(t, buf.String(), "1,000 of 1,000 entries")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}
