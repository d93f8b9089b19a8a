package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkFactory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "recovered.bin")

	factory := &FileSinkFactory{MkdirAll: true}
	sink, err := factory.Create(path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	_, err = factory.Create(path)
	assert.Error(t, err, "existing files are refused without overwrite")

	overwrite := &FileSinkFactory{Overwrite: true}
	sink, err = overwrite.Create(path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("2"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestFileSinkFactory_MissingDirectory(t *testing.T) {
	factory := &FileSinkFactory{}
	_, err := factory.Create(filepath.Join(t.TempDir(), "nope", "file.bin"))
	assert.Error(t, err)
}
