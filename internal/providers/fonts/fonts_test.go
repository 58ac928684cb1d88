package fonts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

type countingFetcher struct {
	data  map[string][]byte
	calls int
}

func (f *countingFetcher) Fetch(_ context.Context, src string) ([]byte, error) {
	f.calls++
	data, ok := f.data[src]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestLoaderLoad(t *testing.T) {
	fetcher := &countingFetcher{data: map[string][]byte{
		"fonts/Go%20Mono.ttf":    gomono.TTF,
		"https://cdn/broken.ttf": []byte("not a font"),
	}}
	l, err := NewLoader(fetcher, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Load(ctx, types.FontItem{Family: "Go Mono", Type: types.FontTypeCustom}))
	assert.True(t, l.Loaded("Go Mono"))
	f, ok := l.Font("Go Mono")
	assert.True(t, ok)
	assert.NotNil(t, f)

	require.NoError(t, l.Load(ctx, types.FontItem{Family: "Go Mono", Type: types.FontTypeCustom}))
	assert.Equal(t, 1, fetcher.calls)

	err = l.Load(ctx, types.FontItem{Family: "Broken", Type: types.FontTypeGoogle, URL: "https://cdn/broken.ttf"})
	assert.ErrorIs(t, err, ErrInvalidFont)
	assert.False(t, l.Loaded("Broken"))

	err = l.Load(ctx, types.FontItem{Family: "Missing", Type: types.FontTypeGoogle})
	assert.Error(t, err)

	fallback, ok := l.Font("Missing")
	assert.False(t, ok)
	assert.NotNil(t, fallback)
	assert.Equal(t, []string{"Go Mono"}, l.Families())
}

func TestLoaderSkipsBasicFonts(t *testing.T) {
	fetcher := &countingFetcher{}
	l, err := NewLoader(fetcher, nil)
	require.NoError(t, err)

	require.NoError(t, l.Load(context.Background(), types.FontItem{Family: "Arial", Type: types.FontTypeBasic}))
	assert.Zero(t, fetcher.calls)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]types.FontItem{
		{Family: "Roboto", Category: "sans-serif", Type: types.FontTypeGoogle},
		{Family: "Lobster", Category: "handwriting", Type: types.FontTypeGoogle},
		{Family: "Georgia", Category: "serif", Type: types.FontTypeCustom, URL: "fonts/georgia.ttf"},
	})

	f, ok := c.Find("Roboto")
	require.True(t, ok)
	assert.Equal(t, types.FontTypeGoogle, f.Type)

	f, ok = c.Find("Georgia")
	require.True(t, ok)
	assert.Equal(t, types.FontTypeCustom, f.Type)

	_, ok = c.Find("Comic Sans")
	assert.False(t, ok)

	assert.Len(t, c.All(), len(BasicFonts)+2)
	assert.Equal(t, []types.FontItem{{Family: "Lobster", Category: "handwriting", Type: types.FontTypeGoogle}},
		c.Search("", "handwriting", 1, 10))
	assert.Len(t, c.Search("o", "", 1, 2), 2)
	assert.Empty(t, c.Search("", "", 10, 2))
}
