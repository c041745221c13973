package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lvmt-matsim/ile-de-france/internal/config"
	"github.com/lvmt-matsim/ile-de-france/internal/fetcher"
)

var censusFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the census extract and the IRIS reference",
	Long: "Downloads census.source_url and spatial.source_url into fetch.temp_dir (or --dir). " +
		"Archives of the spatial reference are unpacked; the census archive is kept whole " +
		"since the clean command reads it directly.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Fetch.TempDir
		}

		files, err := runFetch(cmd.Context(), cfg, dir, newFetcher(cfg.Fetch))
		if err != nil {
			return err
		}
		printFetched(os.Stdout, files)
		return nil
	},
}

func init() {
	censusFetchCmd.Flags().String("dir", "", "download directory (overrides fetch.temp_dir)")
	censusCmd.AddCommand(censusFetchCmd)
}

func newFetcher(c config.FetchConfig) fetcher.Fetcher {
	return fetcher.New(fetcher.Options{
		UserAgent:  c.UserAgent,
		Timeout:    time.Duration(c.TimeoutSecs) * time.Second,
		MaxRetries: c.MaxRetries,
	})
}

// fetchedFile is one downloaded source.
type fetchedFile struct {
	Source    string
	Path      string
	Bytes     int64
	Extracted []string
}

// runFetch downloads both sources concurrently into dir.
func runFetch(ctx context.Context, c *config.Config, dir string, f fetcher.Fetcher) ([]fetchedFile, error) {
	sources := []struct {
		name    string
		url     string
		extract bool
	}{
		{name: "census", url: c.Census.SourceURL},
		{name: "spatial", url: c.Spatial.SourceURL, extract: true},
	}

	for _, src := range sources {
		if src.url == "" {
			return nil, eris.Errorf("fetch: %s.source_url is not set", src.name)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "fetch: create %s", dir)
	}

	files := make([]fetchedFile, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			name, err := fileName(src.url)
			if err != nil {
				return err
			}
			dest := filepath.Join(dir, name)

			log := zap.L().With(zap.String("source", src.name), zap.String("url", src.url))
			log.Info("downloading")
			n, err := f.DownloadToFile(gctx, src.url, dest)
			if err != nil {
				return eris.Wrapf(err, "fetch: %s", src.name)
			}
			files[i] = fetchedFile{Source: src.name, Path: dest, Bytes: n}

			if src.extract && strings.EqualFold(filepath.Ext(dest), ".zip") {
				extracted, err := fetcher.ExtractZIP(dest, filepath.Join(dir, src.name))
				if err != nil {
					return eris.Wrapf(err, "fetch: %s", src.name)
				}
				files[i].Extracted = extracted
			}
			log.Info("downloaded", zap.String("path", dest), zap.Int64("bytes", n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// fileName returns the last path element of rawURL.
func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "fetch: parse url")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", eris.Errorf("fetch: no file name in %s", rawURL)
	}
	return name, nil
}

func printFetched(w io.Writer, files []fetchedFile) {
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "%s: %s (%d bytes)\n", f.Source, f.Path, f.Bytes)
		for _, e := range f.Extracted {
			_, _ = fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
