package handlers

import (
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

// Check reports liveness plus store reachability via a connection ping.
func (h *HealthHandler) Check(c *gin.Context) {
	database := "ok"

	if sqlDB, err := h.db.DB(); err != nil {
		database = "unavailable"
	} else if err := sqlDB.Ping(); err != nil {
		database = "unavailable"
	}

	c.JSON(200, gin.H{
		"status":    "ok",
		"database":  database,
		"message":   "SmartBoard is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
