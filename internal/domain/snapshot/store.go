package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// ErrNotFound is returned for unknown document ids
var ErrNotFound = errors.New("document not found")

// Document is a saved editor state
type Document struct {
	ID        id.DocumentID `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	State     types.State   `json:"state"`
}

// DocumentInfo describes a saved document without its state
type DocumentInfo struct {
	ID        id.DocumentID `json:"id"`
	Name      string        `json:"name"`
	Size      int64         `json:"size"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store persists documents locally
type Store interface {
	Save(ctx context.Context, doc *Document) error
	Load(ctx context.Context, docID id.DocumentID) (*Document, error)
	List(ctx context.Context) ([]DocumentInfo, error)
	Delete(ctx context.Context, docID id.DocumentID) error
	Close() error
}

// prepare fills the id and timestamps of a document about to be saved
func prepare(doc *Document) {
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = id.NewDocumentID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.Name == "" {
		doc.Name = "untitled"
	}
}

// decodeDocument parses a stored document and validates its state
func decodeDocument(data []byte) (*Document, error) {
	var w struct {
		ID        id.DocumentID `json:"id"`
		Name      string        `json:"name"`
		CreatedAt time.Time     `json:"created_at"`
		UpdatedAt time.Time     `json:"updated_at"`
		State     wireState     `json:"state"`
	}
	if err := api.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	st, err := w.State.state()
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:        w.ID,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		State:     st,
	}, nil
}
