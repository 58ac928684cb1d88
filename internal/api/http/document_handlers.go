package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/utils"
)

// ListDocuments lists the saved documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs, err := h.editor.Documents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

// SaveDocument stores the scene as a new document, or over the document
// named by the id parameter
func (h *Handlers) SaveDocument(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if c.Request.ContentLength != 0 && !bindLimited(c, &req) {
		return
	}
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		badRequest(c, err)
		return
	}

	docID, ok := documentID(c, false)
	if !ok {
		return
	}
	doc, err := h.editor.SaveDocument(c.Request.Context(), docID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	code := http.StatusOK
	if docID == "" {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{
		"success":    true,
		"id":         doc.ID,
		"name":       doc.Name,
		"created_at": doc.CreatedAt,
		"updated_at": doc.UpdatedAt,
	})
}

// OpenDocument replaces the document and the history with a saved document
func (h *Handlers) OpenDocument(c *gin.Context) {
	docID, ok := documentID(c, true)
	if !ok {
		return
	}
	doc, err := h.editor.OpenDocument(c.Request.Context(), docID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      doc.ID,
		"name":    doc.Name,
		"history": h.editor.Status().History,
	})
}

// DeleteDocument removes a saved document
func (h *Handlers) DeleteDocument(c *gin.Context) {
	docID, ok := documentID(c, true)
	if !ok {
		return
	}
	h.result(c, h.editor.DeleteDocument(c.Request.Context(), docID))
}

func documentID(c *gin.Context, required bool) (id.DocumentID, bool) {
	raw := c.Param("id")
	if err := utils.ValidateID(raw, "id", required); err != nil {
		badRequest(c, err)
		return "", false
	}
	return id.DocumentID(raw), true
}
