package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// Version y Commit se fijan en tiempo de build vía ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

// GetVersion godoc
// @Summary Versión de la aplicación
// @Tags version
// @Produce json
// @Success 200 {object} map[string]string
// @Router /version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    Version,
		"commit":     Commit,
		"go_version": runtime.Version(),
	})
}
