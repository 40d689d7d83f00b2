package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/database"
	"github.com/freecyberhawk/hakobot/internal/pkg/response"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler checks db and, when sessions live there, redis.
func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Check reports dependency status.
// GET /healthz
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status := gin.H{"database": "ok"}
	healthy := true

	if err := database.Ping(ctx, h.db); err != nil {
		status["database"] = err.Error()
		healthy = false
	}
	if h.redis != nil {
		status["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		response.Unavailable(c, status)
		return
	}
	response.Success(c, status)
}
