package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	sqlDB, err := ctrl.Infra.Postgres.DB.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unreachable"
	}

	storageStatus := "ok"
	if _, err := ctrl.Infra.Minio.ServerInfo(ctx); err != nil {
		storageStatus = "unreachable"
	}

	status := "ok"
	code := http.StatusOK
	if dbStatus != "ok" || storageStatus != "ok" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"storage":   storageStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
