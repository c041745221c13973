package main

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvmt-matsim/ile-de-france/internal/config"
)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRunFetch(t *testing.T) {
	spatialZip := zipBytes(t, map[string]string{"reference_IRIS.csv": testCodes})
	mux := http.NewServeMux()
	mux.HandleFunc("/census/RP_INDCVIZA.zip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("census-archive"))
	})
	mux.HandleFunc("/iris/reference_IRIS.zip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(spatialZip)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &config.Config{
		Census:  config.CensusConfig{SourceURL: srv.URL + "/census/RP_INDCVIZA.zip"},
		Spatial: config.SpatialConfig{SourceURL: srv.URL + "/iris/reference_IRIS.zip"},
	}
	dir := filepath.Join(t.TempDir(), "downloads")
	f := newFetcher(config.FetchConfig{TimeoutSecs: 5, MaxRetries: 1})

	files, err := runFetch(context.Background(), c, dir, f)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "census", files[0].Source)
	assert.Equal(t, filepath.Join(dir, "RP_INDCVIZA.zip"), files[0].Path)
	assert.Equal(t, int64(len("census-archive")), files[0].Bytes)
	assert.Empty(t, files[0].Extracted)

	assert.Equal(t, "spatial", files[1].Source)
	require.Len(t, files[1].Extracted, 1)
	data, err := os.ReadFile(files[1].Extracted[0])
	require.NoError(t, err)
	assert.Equal(t, testCodes, string(data))

	var buf bytes.Buffer
	printFetched(&buf, files)
	assert.Contains(t, buf.String(), "census: "+files[0].Path)
}

func TestRunFetch_MissingURL(t *testing.T) {
	c := &config.Config{Census: config.CensusConfig{SourceURL: "https://www.insee.fr/a.zip"}}
	_, err := runFetch(context.Background(), c, t.TempDir(), newFetcher(config.FetchConfig{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spatial.source_url is not set")
}

func TestRunFetch_DownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &config.Config{
		Census:  config.CensusConfig{SourceURL: srv.URL + "/a.zip"},
		Spatial: config.SpatialConfig{SourceURL: srv.URL + "/b.zip"},
	}
	_, err := runFetch(context.Background(), c, t.TempDir(), newFetcher(config.FetchConfig{TimeoutSecs: 5, MaxRetries: 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch:")
}

func TestFileName(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.insee.fr/fichier/RP2015_INDCVIZA_csv.zip", want: "RP2015_INDCVIZA_csv.zip"},
		{url: "ftp://ftp.example.org/pub/iris.xlsx?x=1", want: "iris.xlsx"},
		{url: "https://www.insee.fr/", wantErr: true},
		{url: "https://www.insee.fr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := fileName(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
