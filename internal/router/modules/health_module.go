package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/container"
)

// HealthModule exposes a liveness probe that checks the store and cache.
type HealthModule struct{}

func NewHealth() *HealthModule {
	return &HealthModule{}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK
		checks := gin.H{}

		if pool := container.GetPGPool(); pool != nil {
			if err := pool.Ping(ctx); err != nil {
				checks["postgres"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				checks["postgres"] = "ok"
			}
		}
		if rdb := container.GetRedis(); rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				checks["redis"] = "ok"
			}
		}
		c.JSON(status, checks)
	})
}
