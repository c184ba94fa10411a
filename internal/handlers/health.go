package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check probes the database with a trivial query so the endpoint reflects
// the one dependency the service cannot work without.
func (h *HealthHandler) Check(ctx *gin.Context) {
	if err := h.db.Exec("SELECT 1").Error; err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
