// Package imaging implements the export pipeline: it loads the displayed
// image, bakes the adjustment filters and the text overlay into pixels and
// encodes the result in the requested format.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxBytes bounds the size of a fetched source image.
const DefaultMaxBytes = 20 << 20

// FetchOptions configures a Fetcher.
type FetchOptions struct {
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxBytes     int64
	AllowedHosts []string
}

// Fetcher loads image bytes from a data URI or an http(s) URL. Remote hosts
// must be on the allowlist.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	allowed  map[string]struct{}
}

func NewFetcher(opts FetchOptions) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	allowed := make(map[string]struct{}, len(opts.AllowedHosts))
	for _, h := range opts.AllowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed[h] = struct{}{}
		}
	}
	f := &Fetcher{timeout: timeout, maxBytes: maxBytes, allowed: allowed}
	guarded := *client
	guarded.CheckRedirect = f.checkRedirect
	f.client = &guarded
	return f
}

// maxRedirects matches the net/http default.
const maxRedirects = 10

// checkRedirect applies the scheme and host rules to every redirect hop.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("imaging: stopped after %d redirects", maxRedirects)
	}
	return f.checkURL(req.URL)
}

func (f *Fetcher) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("imaging: unsupported source scheme %q", u.Scheme)
	}
	if _, ok := f.allowed[strings.ToLower(u.Hostname())]; !ok {
		return fmt.Errorf("imaging: host %q is not allowed", u.Hostname())
	}
	return nil
}

// Fetch returns the raw bytes referenced by src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("imaging: empty image source")
	}
	if strings.HasPrefix(strings.ToLower(src), "data:") {
		data, _, err := DecodeDataURI(src)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > f.maxBytes {
			return nil, fmt.Errorf("imaging: source exceeds %d bytes", f.maxBytes)
		}
		return data, nil
	}
	return f.fetchRemote(ctx, src)
}

func (f *Fetcher) fetchRemote(ctx context.Context, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("imaging: parse source url: %w", err)
	}
	if err := f.checkURL(u); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imaging: fetch source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("imaging: fetch source: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imaging: read source: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("imaging: source exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}

// DecodeDataURI parses "data:[<mediatype>][;base64],<data>" and returns the
// payload bytes and the media type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(strings.ToLower(uri), "data:") {
		return nil, "", errors.New("imaging: not a data uri")
	}
	rest := uri[len("data:"):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", errors.New("imaging: malformed data uri")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	isBase64 := false
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		isBase64 = true
		meta = meta[:len(meta)-len(";base64")]
	}
	mediaType := meta
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !isBase64 {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("imaging: decode data uri: %w", err)
		}
		return []byte(data), mediaType, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode data uri: %w", err)
	}
	return data, mediaType, nil
}

// EncodeDataURI wraps bytes in a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	var b bytes.Buffer
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
