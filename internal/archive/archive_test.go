package archive

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("zip bytes"))
	}))
	defer srv.Close()

	rawDir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/odis_json.zip", rawDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rawDir, "odis_json.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/missing.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestUnzipAndMatchFiles(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "odis_json.zip")
	writeZip(t, zipPath, map[string]string{
		"2.json":     `{"innings":[]}`,
		"1.json":     `{"innings":[]}`,
		"README.txt": "not a match",
	})

	outDir, err := Unzip(zipPath, filepath.Join(dir, "unzipped"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "unzipped", "odis_json"), outDir)

	files, err := MatchFiles(outDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(outDir, "1.json"), files[0])
	assert.Equal(t, filepath.Join(outDir, "2.json"), files[1])
}

func TestUnzipReplacesPreviousExtraction(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "a.zip")
	writeZip(t, zipPath, map[string]string{"1.json": "{}"})

	unzipped := filepath.Join(dir, "unzipped")
	stale := filepath.Join(unzipped, "a", "stale.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	outDir, err := Unzip(zipPath, unzipped)
	require.NoError(t, err)

	files, err := MatchFiles(outDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(outDir, "1.json"), files[0])
}

func TestUnzipRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	writeZip(t, zipPath, map[string]string{"../escape.json": "{}"})

	_, err := Unzip(zipPath, filepath.Join(dir, "unzipped"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
}
