package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
)

// SaveDocument stores the scene. An empty docID saves a new document;
// otherwise the document is overwritten and keeps its creation time.
func (e *Editor) SaveDocument(ctx context.Context, docID id.DocumentID, name string) (*snapshot.Document, error) {
	if e.documents == nil {
		return nil, ErrNoDocuments
	}

	doc := &snapshot.Document{ID: docID, Name: name, State: e.CurrentState()}
	if docID != "" {
		prev, err := e.documents.Load(ctx, docID)
		switch {
		case err == nil:
			doc.CreatedAt = prev.CreatedAt
			if doc.Name == "" {
				doc.Name = prev.Name
			}
		case !errors.Is(err, snapshot.ErrNotFound):
			return nil, err
		}
	}

	if err := e.documents.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	e.logger.Info("Saved document",
		zap.String("document_id", doc.ID.String()),
		zap.String("name", doc.Name),
		zap.Int("objects", len(doc.State.Canvas)))
	return doc, nil
}

// Documents lists the saved documents
func (e *Editor) Documents(ctx context.Context) ([]snapshot.DocumentInfo, error) {
	if e.documents == nil {
		return nil, ErrNoDocuments
	}
	return e.documents.List(ctx)
}

// OpenDocument replaces the document and the history with a saved document
func (e *Editor) OpenDocument(ctx context.Context, docID id.DocumentID) (*snapshot.Document, error) {
	if e.documents == nil {
		return nil, ErrNoDocuments
	}
	doc, err := e.documents.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := e.do(func() error { return e.openState(ctx, doc.State) }); err != nil {
		return nil, err
	}
	e.logger.Info("Opened document", zap.String("document_id", doc.ID.String()))
	return doc, nil
}

// DeleteDocument removes a saved document
func (e *Editor) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	if e.documents == nil {
		return ErrNoDocuments
	}
	return e.documents.Delete(ctx, docID)
}
