package imports

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newValidator() *Validator {
	return NewValidator(types.ImportSettings{
		ValidExtensions: []string{"png", "jpg", "jpeg", "svg", "json", "gif"},
		MaxFileSize:     1 << 20,
	})
}

func TestValidateImage(t *testing.T) {
	file, err := newValidator().Validate("photo.PNG", pngBytes(t))
	require.NoError(t, err)

	assert.Equal(t, "png", file.Extension)
	assert.Equal(t, "image/png", file.MIME)
	assert.False(t, file.IsState())
	assert.True(t, strings.HasPrefix(file.Source, "data:image/png;base64,"))
	assert.Nil(t, file.Data)
}

func TestValidateState(t *testing.T) {
	doc := []byte(`{"canvas":[],"editor":{"frame":null,"fonts":[]},"canvasWidth":800,"canvasHeight":600}`)
	file, err := newValidator().Validate("state.json", doc)
	require.NoError(t, err)

	assert.True(t, file.IsState())
	assert.Equal(t, doc, file.Data)
	assert.Empty(t, file.Source)
}

func TestValidateRejects(t *testing.T) {
	v := newValidator()
	cases := []struct {
		name string
		file string
		data []byte
	}{
		{"no extension", "photo", pngBytes(t)},
		{"extension not allowed", "photo.tiff", pngBytes(t)},
		{"empty", "photo.png", nil},
		{"not an image", "photo.png", []byte("hello world")},
		{"image named json", "state.json", pngBytes(t)},
		{"too large", "photo.gif", bytes.Repeat([]byte{'a'}, 2<<20)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.file, tc.data)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSanitizeState(t *testing.T) {
	st := types.State{Canvas: []types.ObjectRecord{
		{Properties: types.Properties{Type: types.TypeText, Text: `<script>alert(1)</script>Tom & Jerry`}},
		{Objects: []types.ObjectRecord{{Properties: types.Properties{Text: "<b>bold</b>"}}}},
	}}
	newValidator().SanitizeState(&st)

	assert.Equal(t, "Tom & Jerry", st.Canvas[0].Text)
	assert.Equal(t, "bold", st.Canvas[1].Objects[0].Text)
	assert.Equal(t, "a.png", newValidator().SanitizeText(" <i>a.png</i> "))
}
