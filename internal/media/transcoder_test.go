package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConcatManifest(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteConcatManifest(dir, []string{
		filepath.Join(dir, "segment_0.mp4"),
		filepath.Join(dir, "segment_1.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "file '" + filepath.Join(dir, "segment_0.mp4") + "'\n" +
		"file '" + filepath.Join(dir, "segment_1.mp4") + "'\n"
	assert.Equal(t, want, string(raw))
}

func TestWriteConcatManifestEscapesQuotes(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteConcatManifest(dir, []string{"/tmp/it's here.mp4"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `file '/tmp/it'\''s here.mp4'`+"\n", string(raw))
}
