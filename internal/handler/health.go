package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bausingcode/bausing-backend/internal/infra"
	"github.com/bausingcode/bausing-backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the CRM circuit state; never
// exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, crmCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		// Stuck CRM sales surface here before anyone checks Redis by hand.
		crmDLQ, err := worker.DLQLength(ctx, rdb, worker.QueueCRM)
		if err != nil {
			crmDLQ = -1
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"db":      dbStatus,
			"redis":   redisStatus,
			"crm_cb":  crmCB.State().String(),
			"crm_dlq": crmDLQ,
		})
	}
}
