package fetcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "standard ftp url",
			url:      "ftp://ftp.example.org/pub/insee/RP2017_INDCVI_csv.zip",
			wantHost: "ftp.example.org:21",
			wantPath: "/pub/insee/RP2017_INDCVI_csv.zip",
		},
		{
			name:     "ftp url with port",
			url:      "ftp://mirror.example.org:2121/iris/reference_IRIS_geo2017.xlsx",
			wantHost: "mirror.example.org:2121",
			wantPath: "/iris/reference_IRIS_geo2017.xlsx",
		},
		{name: "http scheme rejected", url: "http://example.com/file.csv", wantErr: true},
		{name: "empty path", url: "ftp://ftp.example.org", wantErr: true},
		{name: "invalid url", url: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestNewFTPFetcher_DefaultTimeout(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
}

func TestFTPFetcher_ConnectionRefused(t *testing.T) {
	f := NewFTPFetcher(FTPOptions{Timeout: time.Second})
	_, err := f.DownloadToFile(context.Background(), "ftp://127.0.0.1:1/file.csv", filepath.Join(t.TempDir(), "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp dial")
}
