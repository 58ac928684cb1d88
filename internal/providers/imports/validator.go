// Package imports validates files opened in the editor: state documents and
// images.
package imports

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ErrValidation is returned for files the editor refuses to open
var ErrValidation = errors.New("file failed validation")

// StateExtension marks editor state documents
const StateExtension = "json"

// File is a validated import
type File struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	MIME      string `json:"mime"`
	Size      int64  `json:"size"`
	// Data holds the raw bytes of state documents
	Data []byte `json:"-"`
	// Source is a data URL of image files
	Source string `json:"-"`
}

// IsState reports whether the file is an editor state document
func (f File) IsState() bool { return f.Extension == StateExtension }

// Validator checks extension, size and content type of imports
type Validator struct {
	extensions []string
	maxSize    int64
	policy     *bluemonday.Policy
}

// NewValidator creates a validator from the import settings
func NewValidator(cfg types.ImportSettings) *Validator {
	exts := make([]string, 0, len(cfg.ValidExtensions))
	for _, ext := range cfg.ValidExtensions {
		exts = append(exts, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	return &Validator{
		extensions: exts,
		maxSize:    cfg.MaxFileSize,
		policy:     bluemonday.StrictPolicy(),
	}
}

// Extensions returns the accepted extensions
func (v *Validator) Extensions() []string { return slices.Clone(v.extensions) }

// Validate inspects a named upload and prepares it for the editor
func (v *Validator) Validate(name string, data []byte) (File, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return File{}, fmt.Errorf("%w: %s has no extension", ErrValidation, name)
	}
	if len(v.extensions) > 0 && !slices.Contains(v.extensions, ext) {
		return File{}, fmt.Errorf("%w: extension %q is not allowed", ErrValidation, ext)
	}
	if len(data) == 0 {
		return File{}, fmt.Errorf("%w: %s is empty", ErrValidation, name)
	}
	if v.maxSize > 0 && int64(len(data)) > v.maxSize {
		return File{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrValidation, name, v.maxSize)
	}

	mtype := mimetype.Detect(data)
	file := File{
		Name:      v.SanitizeText(filepath.Base(name)),
		Extension: ext,
		MIME:      mtype.String(),
		Size:      int64(len(data)),
	}

	if file.IsState() {
		if !mtype.Is("application/json") && !mtype.Is("text/plain") {
			return File{}, fmt.Errorf("%w: %s is not a json document (%s)", ErrValidation, name, mtype.String())
		}
		file.Data = data
		return file, nil
	}

	if !isImage(mtype) {
		return File{}, fmt.Errorf("%w: %s is not an image (%s)", ErrValidation, name, mtype.String())
	}
	file.Source = DataURL(mtype.String(), data)
	return file, nil
}

// SanitizeText strips markup from user supplied text. Entities are decoded
// again since the result is plain text.
func (v *Validator) SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

// SanitizeState strips markup from the text objects of an imported state
func (v *Validator) SanitizeState(st *types.State) {
	for i := range st.Canvas {
		v.sanitizeRecord(&st.Canvas[i])
	}
}

func (v *Validator) sanitizeRecord(r *types.ObjectRecord) {
	if r.Text != "" {
		r.Text = html.UnescapeString(v.policy.Sanitize(r.Text))
	}
	for i := range r.Objects {
		v.sanitizeRecord(&r.Objects[i])
	}
}

// DataURL encodes data as a base64 data URL
func DataURL(mime string, data []byte) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func isImage(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
