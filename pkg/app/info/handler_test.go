package info

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/device"
	"github.com/deploymenttheory/go-ntfs-recovery/internal/testutil"
	"github.com/deploymenttheory/go-ntfs-recovery/pkg/app"
)

func newRequest() *Request {
	return &Request{
		Target: app.DeviceTarget{Path: "image.raw", Partition: device.NoPartition},
		Config: device.Config{Partition: device.NoPartition, ChunkSectors: device.DefaultChunkSectors},
	}
}

func newContext(vol *testutil.MemoryVolume) *app.Context {
	logger, _ := test.NewNullLogger()
	ctx := app.NewContext()
	ctx.Logger = logger
	ctx.Opener = &testutil.Opener{Volume: vol}
	return ctx
}

func TestHandle(t *testing.T) {
	fx := testutil.NewDeletedFileFixture()

	resp, err := Handle(newContext(fx.Volume), newRequest())
	require.NoError(t, err)

	g := resp.Geometry
	assert.Equal(t, "memory", resp.Device)
	assert.Equal(t, "NTFS    ", g.OEMID)
	assert.Equal(t, uint32(512), g.BytesPerSector)
	assert.Equal(t, uint32(8), g.SectorsPerCluster)
	assert.Equal(t, uint32(4096), g.BytesPerCluster)
	assert.Equal(t, uint32(1024), g.FileRecordSize)
	assert.Equal(t, uint64(4), g.MFTCluster)
	assert.Equal(t, uint64(32), g.MFTStartSector)
	assert.Equal(t, "1122334455667788", g.VolumeSerial)
	assert.True(t, g.BootSignature)
	assert.True(t, fx.Volume.Closed())
}

func TestHandle_NotNTFS(t *testing.T) {
	vol := testutil.NewMemoryVolume(512, 16)

	_, err := Handle(newContext(vol), newRequest())
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeNotNTFS, appErr.Code)
}

func TestHandle_InvalidRequest(t *testing.T) {
	req := newRequest()
	req.Target.Path = ""

	_, err := Handle(newContext(testutil.NewMemoryVolume(512, 16)), req)
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeInvalidInput, appErr.Code)
}

func TestFormatOutput(t *testing.T) {
	fx := testutil.NewDeletedFileFixture()
	resp, err := Handle(newContext(fx.Volume), newRequest())
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, FormatOutput(&out, resp, "table"))
		assert.Contains(t, out.String(), "Cluster size")
		assert.Contains(t, out.String(), "4.0 KiB")
		assert.Contains(t, out.String(), "1122334455667788")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, FormatOutput(&out, resp, "json"))
		var decoded Response
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, resp.Geometry, decoded.Geometry)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, FormatOutput(&out, resp, "yaml"))
		assert.Contains(t, out.String(), "bytes_per_cluster: 4096")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, FormatOutput(&bytes.Buffer{}, resp, "csv"))
	})
}
