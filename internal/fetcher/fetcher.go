package fetcher

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher downloads a remote file.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures the fetchers returned by New.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// Router dispatches downloads to the HTTP or FTP fetcher by URL scheme.
type Router struct {
	http Fetcher
	ftp  Fetcher
}

// New creates a Router with an HTTP fetcher for http(s) URLs and an FTP fetcher
// for ftp URLs.
func New(opts Options) *Router {
	return &Router{
		http: NewHTTPFetcher(HTTPOptions{
			UserAgent:    opts.UserAgent,
			Timeout:      opts.Timeout,
			MaxRetries:   opts.MaxRetries,
			RateLimiters: DefaultRateLimiters(),
		}),
		ftp: NewFTPFetcher(FTPOptions{Timeout: opts.Timeout}),
	}
}

func (r *Router) pick(rawURL string) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: parse url")
	}
	switch u.Scheme {
	case "http", "https":
		return r.http, nil
	case "ftp":
		return r.ftp, nil
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q in %s", u.Scheme, rawURL)
	}
}

// Download fetches the URL with the fetcher matching its scheme.
func (r *Router) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	f, err := r.pick(rawURL)
	if err != nil {
		return nil, err
	}
	return f.Download(ctx, rawURL)
}

// DownloadToFile fetches the URL into path with the fetcher matching its scheme.
func (r *Router) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	f, err := r.pick(rawURL)
	if err != nil {
		return 0, err
	}
	return f.DownloadToFile(ctx, rawURL, path)
}
