package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/internal/application/mapview"
)

const contentTypeSVG = "image/svg+xml; charset=utf-8"

// MapHandler serves the drawable map and the point/address lookups.
type MapHandler struct {
	svc mapview.Service
}

// NewMapHandler creates a MapHandler.
func NewMapHandler(svc mapview.Service) *MapHandler {
	return &MapHandler{svc: svc}
}

// AtlasInfo describes the loaded geographic document.
type AtlasInfo struct {
	Fingerprint string   `json:"fingerprint"`
	Source      string   `json:"source"`
	Shapes      int      `json:"shapes"`
	Regions     int      `json:"regions"`
	Unmapped    []string `json:"unmapped,omitempty"`
}

func atlasInfo(a *mapview.Atlas) AtlasInfo {
	return AtlasInfo{
		Fingerprint: a.Fingerprint,
		Source:      a.Source,
		Shapes:      len(a.Shapes()),
		Regions:     a.RenderedCount(),
		Unmapped:    a.Unmapped(),
	}
}

// Shapes handles GET /map/shapes.
func (h *MapHandler) Shapes(c *gin.Context) {
	shapes := h.svc.Shapes()
	c.JSON(http.StatusOK, ListResponse{Items: shapes, Total: len(shapes)})
}

// SVG handles GET /map/svg?selected=.
func (h *MapHandler) SVG(c *gin.Context) {
	out, err := h.svc.SVG(c.Request.Context(), c.Query("selected"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, out)
}

// Locate handles GET /map/locate?lon=&lat=.
func (h *MapHandler) Locate(c *gin.Context) {
	lon, err := parseFloat(c, "lon")
	if err != nil {
		writeAppError(c, err)
		return
	}
	lat, err := parseFloat(c, "lat")
	if err != nil {
		writeAppError(c, err)
		return
	}
	res, err := h.svc.Locate(lon, lat)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// LocateIP handles GET /map/locate/ip?addr=.  Without addr the client
// address is used.
func (h *MapHandler) LocateIP(c *gin.Context) {
	addr := strings.TrimSpace(c.Query("addr"))
	if addr == "" {
		addr = c.ClientIP()
	}
	res, err := h.svc.LocateIP(addr)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Atlas handles GET /map/atlas.
func (h *MapHandler) Atlas(c *gin.Context) {
	c.JSON(http.StatusOK, atlasInfo(h.svc.Atlas()))
}

// Reload handles POST /map/reload.
func (h *MapHandler) Reload(c *gin.Context) {
	if err := h.svc.ReloadAtlas(c.Request.Context()); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, atlasInfo(h.svc.Atlas()))
}

//Personal.AI order the ending
