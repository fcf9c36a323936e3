package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pricewish/tracker/internal/middleware"
)

// EmailAlertRequest represents the alert email request body
type EmailAlertRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Email  string `json:"email" binding:"required"`
}

// SendEmailAlert handles POST /alerts/email. There is no mail transport
// behind this endpoint; the request is validated and recorded.
func SendEmailAlert(c *gin.Context) {
	var req EmailAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.Contains(req.Email, "@") {
		errorResponse(c, http.StatusBadRequest, "invalid email address")
		return
	}

	item, ok := reg.Get(middleware.SessionID(c), req.ItemID)
	if !ok {
		errorResponse(c, http.StatusNotFound, "item not found")
		return
	}

	log.Info().
		Str("item_id", item.ID).
		Str("title", item.Title).
		Str("email", req.Email).
		Msg("Alert email queued")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
