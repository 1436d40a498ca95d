package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/internal/application/mapview"
)

// RegionHandler serves the catalog, tooltip, contact panel and statistics
// views.
type RegionHandler struct {
	svc mapview.Service
}

// NewRegionHandler creates a RegionHandler.
func NewRegionHandler(svc mapview.Service) *RegionHandler {
	return &RegionHandler{svc: svc}
}

// List handles GET /regions: every region in catalog order with its
// representative count.
func (h *RegionHandler) List(c *gin.Context) {
	regions := h.svc.Regions()
	c.JSON(http.StatusOK, ListResponse{Items: regions, Total: len(regions)})
}

// Get handles GET /regions/:id.
func (h *RegionHandler) Get(c *gin.Context) {
	r, err := h.svc.Region(c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Tooltip handles GET /regions/:id/tooltip.
func (h *RegionHandler) Tooltip(c *gin.Context) {
	t, err := h.svc.Tooltip(c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Contacts handles GET /regions/:id/representatives.
func (h *RegionHandler) Contacts(c *gin.Context) {
	p, err := h.svc.Contacts(c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Prompt handles GET /contacts: the panel with nothing selected.
func (h *RegionHandler) Prompt(c *gin.Context) {
	p, _ := h.svc.Contacts("")
	c.JSON(http.StatusOK, p)
}

// Lookup handles GET /regions/lookup?name=.
func (h *RegionHandler) Lookup(c *gin.Context) {
	r, err := h.svc.LookupByName(c.Query("name"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Stats handles GET /stats.
func (h *RegionHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

//Personal.AI order the ending
