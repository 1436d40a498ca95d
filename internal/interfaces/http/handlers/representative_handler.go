package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/pkg/errors"
)

// RepresentativeHandler exposes the snapshot and, when a writable
// repository is configured, the admin edit endpoints.
type RepresentativeHandler struct {
	store  *snapshot.Store
	editor *snapshot.Editor
}

// NewRepresentativeHandler creates a RepresentativeHandler.  editor may be
// nil, which disables the write endpoints.
func NewRepresentativeHandler(store *snapshot.Store, editor *snapshot.Editor) *RepresentativeHandler {
	return &RepresentativeHandler{store: store, editor: editor}
}

// List handles GET /representatives.
func (h *RepresentativeHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Current())
}

// Refresh handles POST /representatives/refresh.
func (h *RepresentativeHandler) Refresh(c *gin.Context) {
	snap, err := h.store.Refresh(c.Request.Context())
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":    snap.Version,
		"digest":     snap.Digest,
		"source":     snap.Source,
		"count":      snap.Len(),
		"fetched_at": snap.FetchedAt,
	})
}

func (h *RepresentativeHandler) requireEditor(c *gin.Context) bool {
	if h.editor == nil {
		writeAppError(c, errors.New(errors.ErrCodeFeatureDisabled, "representative storage is read-only"))
		return false
	}
	return true
}

func bindRepresentative(c *gin.Context) (*representative.Representative, error) {
	var rep representative.Representative
	if err := c.ShouldBindJSON(&rep); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed representative body")
	}
	return &rep, nil
}

// Get handles GET /representatives/:id.
func (h *RepresentativeHandler) Get(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		writeAppError(c, err)
		return
	}
	rep, err := h.editor.Get(c.Request.Context(), id)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Create handles POST /representatives.
func (h *RepresentativeHandler) Create(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	rep, err := bindRepresentative(c)
	if err != nil {
		writeAppError(c, err)
		return
	}
	if err := h.editor.Create(c.Request.Context(), rep); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rep)
}

// Update handles PUT /representatives/:id.  The path id wins over the body.
func (h *RepresentativeHandler) Update(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		writeAppError(c, err)
		return
	}
	rep, err := bindRepresentative(c)
	if err != nil {
		writeAppError(c, err)
		return
	}
	rep.ID = id
	if err := h.editor.Update(c.Request.Context(), rep); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Delete handles DELETE /representatives/:id.
func (h *RepresentativeHandler) Delete(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		writeAppError(c, err)
		return
	}
	if err := h.editor.Delete(c.Request.Context(), id); err != nil {
		writeAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
