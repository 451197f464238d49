// Package audio provides the media subsystem behind playback controls:
// fetching remote audio, decoding it and driving the speaker.
package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mmcdole/mixtape/internal/domain"
)

// maxAudioBytes bounds how much of a single resource is read into memory
const maxAudioBytes = 64 << 20

// Fetcher retrieves audio resources and keeps recently used ones in memory
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	cache   *lru.Cache[string, []byte]
	logger  *slog.Logger

	maxBytes int64
}

// NewFetcher creates a fetcher caching up to cacheEntries resources
func NewFetcher(timeout time.Duration, cacheEntries int, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheEntries < 1 {
		cacheEntries = 1
	}
	cache, err := lru.New[string, []byte](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio cache: %w", err)
	}
	return &Fetcher{
		client:  &http.Client{},
		timeout: timeout,
		cache:   cache,
		logger:  logger,

		maxBytes: maxAudioBytes,
	}, nil
}

// Fetch returns the bytes behind ref. http(s) URLs are downloaded, file URLs
// and bare paths are read from disk.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if data, ok := f.cache.Get(ref); ok {
		return data, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reference %q: %v", domain.ErrResourceLoad, ref, err)
	}

	var data []byte
	switch u.Scheme {
	case "http", "https":
		data, err = f.download(ctx, ref)
	case "file":
		data, err = f.readFile(u.Path)
	case "":
		data, err = f.readFile(ref)
	default:
		err = fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceLoad, err)
	}

	f.cache.Add(ref, data)
	f.logger.Debug("fetched audio", "ref", ref, "bytes", len(data))
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, ref string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", ref, resp.StatusCode)
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.readLimited(file)
}

// readLimited reads r whole, failing rather than truncating an oversized
// resource
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("resource exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}

// Len returns the number of cached resources
func (f *Fetcher) Len() int {
	return f.cache.Len()
}
