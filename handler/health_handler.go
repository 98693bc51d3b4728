package handler

import (
	"context"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	mongoClient *mongo.Client
	cache       *services.SessionCache
	startedAt   time.Time
}

func NewHealthHandler(mongoClient *mongo.Client, cache *services.SessionCache) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		cache:       cache,
		startedAt:   time.Now(),
	}
}

// Health reports liveness of the service and its backing stores.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"

	mongoStatus := "up"
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		mongoStatus = "down"
		status = "degraded"
	}

	redisStatus := "up"
	if h.cache == nil || !h.cache.IsConnected() {
		redisStatus = "down"
		status = "degraded"
	}

	utils.Success(c, gin.H{
		"status":        status,
		"uptime":        time.Since(h.startedAt).Round(time.Second).String(),
		"cpu_percent":   utils.GetCPUUsage(),
		"mongo":         mongoStatus,
		"mongo_metrics": utils.GetMongoMetrics(),
		"redis":         redisStatus,
	})
}
