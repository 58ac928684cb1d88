// Package fonts loads the fonts text objects use and keeps the font catalog.
package fonts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/go-text/typesetting/font"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

var ErrInvalidFont = errors.New("invalid font data")

// Fetcher returns the bytes of an asset source
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// Loader fetches and parses fonts, caching them by family
type Loader struct {
	fetcher  Fetcher
	logger   *zap.Logger
	fallback *font.Font

	mu     sync.RWMutex
	loaded map[string]*font.Font
}

// NewLoader creates a loader. Families that never loaded resolve to the
// embedded Go Regular face.
func NewLoader(fetcher Fetcher, log *zap.Logger) (*Loader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	face, err := font.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fallback font: %w", err)
	}
	return &Loader{
		fetcher:  fetcher,
		logger:   log,
		fallback: face.Font,
		loaded:   make(map[string]*font.Font),
	}, nil
}

// Load fetches item and checks it parses as a TrueType or OpenType font.
// Basic fonts are provided by the renderer and are not fetched.
func (l *Loader) Load(ctx context.Context, item types.FontItem) error {
	if item.Type == types.FontTypeBasic || item.Family == "" {
		return nil
	}
	if l.Loaded(item.Family) {
		return nil
	}

	data, err := l.fetcher.Fetch(ctx, source(item))
	if err != nil {
		return fmt.Errorf("failed to fetch font %s: %w", item.Family, err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFont, item.Family, err)
	}

	l.mu.Lock()
	l.loaded[item.Family] = face.Font
	l.mu.Unlock()

	l.logger.Debug("Loaded font", zap.String("family", item.Family), zap.Int("bytes", len(data)))
	return nil
}

// Loaded reports whether family has been loaded
func (l *Loader) Loaded(family string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.loaded[family]
	return ok
}

// Font returns the parsed font of family, or the fallback font
func (l *Loader) Font(family string) (*font.Font, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if f, ok := l.loaded[family]; ok {
		return f, true
	}
	return l.fallback, false
}

// Families returns the loaded families
func (l *Loader) Families() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.loaded))
	for family := range l.loaded {
		out = append(out, family)
	}
	return out
}

func source(item types.FontItem) string {
	if item.URL != "" {
		return item.URL
	}
	return "fonts/" + url.PathEscape(item.Family) + ".ttf"
}
