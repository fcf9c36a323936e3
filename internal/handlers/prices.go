package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricewish/tracker/internal/middleware"
	"github.com/pricewish/tracker/internal/types"
)

// RefreshPricesRequest represents the refresh request body
type RefreshPricesRequest struct {
	IDs []string `json:"ids"`
}

// RefreshPricesResponse carries the items whose price actually moved
type RefreshPricesResponse struct {
	Updated []types.Item `json:"updated"`
}

// RefreshPrices handles POST /prices/refresh
func RefreshPrices(c *gin.Context) {
	// ContentLength is -1 for chunked requests, which still carry a body;
	// only a known-empty body skips the bind. An empty body means
	// refresh-all, not an error.
	var req RefreshPricesRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	updated, err := reg.Reprice(c.Request.Context(), middleware.SessionID(c), req.IDs)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to refresh prices")
		return
	}
	if updated == nil {
		updated = []types.Item{}
	}

	log.Info().Int("updated", len(updated)).Int("requested", len(req.IDs)).Msg("Prices refreshed")
	c.JSON(http.StatusOK, RefreshPricesResponse{Updated: updated})
}
