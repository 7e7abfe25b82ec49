package controllers

import (
	"net/http"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services/container"

	"github.com/gin-gonic/gin"
)

// HealthController reports service liveness
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController creates a new health controller
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{Ctx: ctx, Container: container}
}

// HandleHealthFunc returns a gin handler dispatching to the health controller
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		default:
			controller.Check()
		}
	}
}

// 1. Ping answers pong
// @Summary Ping
// @Tags Santé
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ping [get]
func (c *HealthController) Ping() {
	c.Ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// 2. Check pings the database and the cache
// @Summary État de santé du service
// @Tags Santé
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) Check() {
	status := http.StatusOK
	dbStatus := "ok"
	redisStatus := "ok"

	db := c.Container.GetDB()
	sqlDB, err := db.DB()
	if err != nil {
		dbStatus = err.Error()
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	if err := redisService.Ping(); err != nil {
		// the cache is best effort, a dead Redis degrades but does not
		// take the API down
		redisStatus = err.Error()
	}

	state := "up"
	if status != http.StatusOK {
		state = "down"
	}
	c.Ctx.JSON(status, gin.H{
		"status":   state,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
