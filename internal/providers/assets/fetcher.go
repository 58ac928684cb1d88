// Package assets fetches the binary assets documents reference: images,
// stickers and fonts. Sources are data URLs, http(s) URLs or paths below a
// local asset root.
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/resilience"
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrTooLarge    = errors.New("asset too large")
	ErrInvalidURL  = errors.New("invalid asset source")
	ErrHostDenied  = errors.New("asset host not allowed")
	ErrOutsideRoot = errors.New("asset path escapes the asset root")
)

const defaultMaxBytes = 32 << 20

// Config configures a Fetcher. Remote sources must live on the BaseURL
// host or one of AllowedHosts; an entry of the form "*.example.com" matches
// any subdomain.
type Config struct {
	Root         string
	BaseURL      string
	AllowedHosts []string
	Timeout      time.Duration
	RetryMax     int
	MaxBytes     int64
	HTTPClient   *http.Client
}

// Fetcher loads assets from data URLs, remote hosts or the local root
type Fetcher struct {
	root     string
	baseURL  string
	hosts    []string
	maxBytes int64
	client   *retryablehttp.Client
	breaker  *resilience.Breaker
	logger   *zap.Logger
}

// NewFetcher creates a fetcher; remote fetches retry and share one breaker
func NewFetcher(cfg Config, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	hosts := allowedHosts(cfg.BaseURL, cfg.AllowedHosts)
	base := client.HTTPClient
	if cfg.HTTPClient != nil {
		base = cfg.HTTPClient
	}
	c := *base
	httpClient := &c
	httpClient.Timeout = cfg.Timeout
	next := httpClient.CheckRedirect
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !hostAllowed(hosts, req.URL) {
			return fmt.Errorf("%w: %s", ErrHostDenied, req.URL.Host)
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
	client.HTTPClient = httpClient

	breaker := resilience.New("assets", resilience.Settings{
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrTooLarge) && !errors.Is(err, ErrHostDenied)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Asset breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Fetcher{
		root:     cfg.Root,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		hosts:    hosts,
		maxBytes: cfg.MaxBytes,
		client:   client,
		breaker:  breaker,
		logger:   log,
	}
}

// Breaker returns the breaker guarding remote fetches
func (f *Fetcher) Breaker() *resilience.Breaker { return f.breaker }

// Fetch returns the bytes of src
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return f.decodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return f.remote(ctx, src)
	case f.baseURL != "" && f.root == "":
		return f.remote(ctx, f.baseURL+"/"+strings.TrimLeft(src, "/"))
	default:
		return f.local(src)
	}
}

func (f *Fetcher) remote(ctx context.Context, src string) ([]byte, error) {
	u, err := url.ParseRequestURI(src)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, src)
	}
	if !hostAllowed(f.hosts, u) {
		return nil, fmt.Errorf("%w: %s", ErrHostDenied, u.Host)
	}

	return resilience.Run(f.breaker, func() ([]byte, error) {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidURL, src)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("failed to fetch %s: status %d", src, resp.StatusCode)
		}
		return f.read(resp.Body, src)
	})
}

func (f *Fetcher) local(src string) ([]byte, error) {
	if f.root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(src, "/")))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, src)
	}

	file, err := os.Open(filepath.Join(f.root, rel))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer file.Close()
	return f.read(file, src)
}

func (f *Fetcher) read(r io.Reader, src string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, src)
	}
	return data, nil
}

func (f *Fetcher) decodeDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data url", ErrInvalidURL)
	}
	if strings.HasSuffix(meta, ";base64") {
		if int64(base64.StdEncoding.DecodedLen(len(payload))) > f.maxBytes+2 {
			return nil, fmt.Errorf("%w: data url", ErrTooLarge)
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
		}
		return f.bounded(data)
	}
	if int64(len(payload)) > 3*f.maxBytes {
		return nil, fmt.Errorf("%w: data url", ErrTooLarge)
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return f.bounded([]byte(text))
}

func (f *Fetcher) bounded(data []byte) ([]byte, error) {
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: data url", ErrTooLarge)
	}
	return data, nil
}

func allowedHosts(baseURL string, extra []string) []string {
	var hosts []string
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		hosts = append(hosts, strings.ToLower(u.Host))
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func hostAllowed(hosts []string, u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host, name := strings.ToLower(u.Host), strings.ToLower(u.Hostname())
	for _, h := range hosts {
		switch {
		case h == host, h == name:
			return true
		case strings.HasPrefix(h, "*.") && strings.HasSuffix(name, h[1:]):
			return true
		}
	}
	return false
}
