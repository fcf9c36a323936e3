// Package handlers implements the item API endpoints
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pricewish/tracker/internal/registry"
)

// Version is reported by the health endpoint; set at build time
var Version = "dev"

var (
	reg *registry.Registry
	log zerolog.Logger
)

// Init wires the shared registry and logger into the handler package
func Init(r *registry.Registry, logger zerolog.Logger) {
	reg = r
	log = logger
}

// errorResponse writes the structured error envelope
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}
