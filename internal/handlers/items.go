package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pricewish/tracker/internal/middleware"
	"github.com/pricewish/tracker/internal/types"
)

// ListItems handles GET /items
func ListItems(c *gin.Context) {
	items := reg.List(middleware.SessionID(c))
	if items == nil {
		items = []types.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /items/:id
func GetItem(c *gin.Context) {
	item, ok := reg.Get(middleware.SessionID(c), c.Param("id"))
	if !ok {
		errorResponse(c, http.StatusNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem handles POST /items
func CreateItem(c *gin.Context) {
	var payload types.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.Title) == "" {
		errorResponse(c, http.StatusBadRequest, "title is required")
		return
	}
	switch payload.UserCountry {
	case types.CountryGB, types.CountryUS, types.CountryEU:
	default:
		errorResponse(c, http.StatusBadRequest, "unsupported user_country")
		return
	}
	switch payload.InputType {
	case types.InputTypeURL, types.InputTypeName, types.InputTypeNameAttrs:
	default:
		errorResponse(c, http.StatusBadRequest, "unsupported input_type")
		return
	}
	if payload.InputType == types.InputTypeURL && payload.URL == "" {
		errorResponse(c, http.StatusBadRequest, "url is required for url input")
		return
	}

	item := reg.Create(middleware.SessionID(c), payload)
	log.Info().
		Str("id", item.ID).
		Str("sku_key", item.SkuKey).
		Str("input_type", string(item.InputType)).
		Msg("Item created")
	c.JSON(http.StatusCreated, item)
}

// PatchItem handles PATCH /items/:id
func PatchItem(c *gin.Context) {
	var patch types.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Status != nil {
		switch *patch.Status {
		case types.StatusTracking, types.StatusAlerted, types.StatusError:
		default:
			errorResponse(c, http.StatusBadRequest, "unsupported status")
			return
		}
	}

	item, ok := reg.Patch(middleware.SessionID(c), c.Param("id"), patch)
	if !ok {
		errorResponse(c, http.StatusNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id
func DeleteItem(c *gin.Context) {
	if !reg.Delete(middleware.SessionID(c), c.Param("id")) {
		errorResponse(c, http.StatusNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SearchItemsRequest represents query parameters for item search
type SearchItemsRequest struct {
	Query string `form:"q" binding:"required,min=2"`
}

// SearchItems handles GET /items/search?q=
func SearchItems(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "query must be at least 2 characters")
		return
	}

	items := reg.Search(middleware.SessionID(c), req.Query)
	if items == nil {
		items = []types.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "query": req.Query})
}

// SimulateDrop handles POST /items/:id/simulate-drop
func SimulateDrop(c *gin.Context) {
	item, ok := reg.SimulateDrop(middleware.SessionID(c), c.Param("id"))
	if !ok {
		errorResponse(c, http.StatusNotFound, "item not found")
		return
	}
	log.Info().Str("id", item.ID).Msg("Simulated price drop")
	c.JSON(http.StatusOK, item)
}
