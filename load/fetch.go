/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"bennypowers.dev/learnjq/internal/version"
	"bennypowers.dev/learnjq/stage"
)

const (
	// DefaultTimeout is the maximum time to wait for a fixture fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxSize is the maximum allowed fixture size (10 MB).
	DefaultMaxSize int64 = 10 * 1024 * 1024
)

// ErrUnsupportedScheme is returned for fixture URLs that are not http or https.
var ErrUnsupportedScheme = errors.New("unsupported fixture URL scheme")

// Fetcher fetches remote stage fixtures.
type Fetcher = stage.Fetcher

// HTTPFetcher fetches fixtures over HTTP with size limiting.
//
// Responses carrying an ETag are remembered, so a catalog reload revalidates
// with If-None-Match and reuses the body on 304 Not Modified.
type HTTPFetcher struct {
	maxSize int64
	client  *http.Client

	mu    sync.Mutex
	cache map[string]cachedFixture
}

type cachedFixture struct {
	etag string
	body []byte
}

// NewHTTPFetcher creates an HTTPFetcher with the given maximum response size.
func NewHTTPFetcher(maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		maxSize: maxSize,
		client:  &http.Client{},
		cache:   make(map[string]cachedFixture),
	}
}

// Fetch fetches the fixture at rawURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture URL %s: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "learnjq/"+version.Get())
	req.Header.Set("Accept", "application/json")

	cached, hasCached := f.cached(rawURL)
	if hasCached {
		req.Header.Set("If-None-Match", cached.etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout fetching %s: %w", rawURL, err)
		}
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCached:
		return cached.body, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("fixture %s exceeds maximum size of %d bytes", rawURL, f.maxSize)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		f.mu.Lock()
		f.cache[rawURL] = cachedFixture{etag: etag, body: body}
		f.mu.Unlock()
	}
	return body, nil
}

func (f *HTTPFetcher) cached(rawURL string) (cachedFixture, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cache[rawURL]
	return c, ok
}

// timeoutFetcher bounds every fetch of the wrapped Fetcher.
type timeoutFetcher struct {
	next    Fetcher
	timeout time.Duration
}

func (f timeoutFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.next.Fetch(ctx, rawURL)
}
