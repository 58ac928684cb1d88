// Package imaging resolves image sources to their dimensions for the canvas.
package imaging

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/canvas"
)

var ErrUnsupported = errors.New("unsupported image format")

// Fetcher returns the bytes of an asset source
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// Loader implements canvas.ImageLoader over a Fetcher
type Loader struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewLoader creates a loader
func NewLoader(fetcher Fetcher, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, logger: log}
}

// Load fetches src and reads its dimensions without decoding pixels
func (l *Loader) Load(ctx context.Context, src string) (canvas.Image, error) {
	data, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return canvas.Image{}, err
	}

	width, height, err := Dimensions(data)
	if err != nil {
		l.logger.Debug("Failed to read image dimensions", zap.String("src", truncate(src)), zap.Error(err))
		return canvas.Image{}, err
	}
	return canvas.Image{Src: src, Width: width, Height: height}, nil
}

// Dimensions returns the intrinsic size of an encoded image
func Dimensions(data []byte) (float64, float64, error) {
	if mimetype.Detect(data).Is("image/svg+xml") {
		return svgDimensions(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

type svgRoot struct {
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	ViewBox string `xml:"viewBox,attr"`
}

// svgDimensions reads width and height, falling back to the viewBox
func svgDimensions(data []byte) (float64, float64, error) {
	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	width, wok := svgLength(root.Width)
	height, hok := svgLength(root.Height)
	if wok && hok {
		return width, height, nil
	}

	box := strings.FieldsFunc(root.ViewBox, func(r rune) bool { return r == ' ' || r == ',' })
	if len(box) == 4 {
		vw, err1 := strconv.ParseFloat(box[2], 64)
		vh, err2 := strconv.ParseFloat(box[3], 64)
		if err1 == nil && err2 == nil && vw > 0 && vh > 0 {
			switch {
			case wok:
				return width, width * vh / vw, nil
			case hok:
				return height * vw / vh, height, nil
			}
			return vw, vh, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: svg without size", ErrUnsupported)
}

func svgLength(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" || strings.HasSuffix(v, "%") {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	return n, err == nil && n > 0
}

func truncate(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}

var _ canvas.ImageLoader = (*Loader)(nil)
