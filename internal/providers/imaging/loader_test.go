package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(_ context.Context, src string) ([]byte, error) {
	data, ok := m[src]
	if !ok {
		return nil, errors.New("missing")
	}
	return data, nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestLoaderPNG(t *testing.T) {
	l := NewLoader(mapFetcher{"a.png": encodePNG(t, 800, 600)}, nil)

	img, err := l.Load(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "a.png", img.Src)
	assert.Equal(t, 800.0, img.Width)
	assert.Equal(t, 600.0, img.Height)

	_, err = l.Load(context.Background(), "missing.png")
	assert.Error(t, err)
}

func TestDimensionsSVG(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		w, h float64
		err  bool
	}{
		{"size attributes", `<svg xmlns="http://www.w3.org/2000/svg" width="120px" height="80"></svg>`, 120, 80, false},
		{"view box", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 300 150"></svg>`, 300, 150, false},
		{"width and view box", `<svg xmlns="http://www.w3.org/2000/svg" width="600" viewBox="0,0,300,150"></svg>`, 600, 300, false},
		{"percent size", `<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="0 0 10 20"></svg>`, 10, 20, false},
		{"no size", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := Dimensions([]byte(tt.svg))
			if tt.err {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.w, w, 1e-9)
			assert.InDelta(t, tt.h, h, 1e-9)
		})
	}
}

func TestDimensionsRejectsGarbage(t *testing.T) {
	_, _, err := Dimensions([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)
}
