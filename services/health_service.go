package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/types"
)

const dbPingAttempts = 3

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	dbPool      Pinger
	redisClient *redis.Client
	version     string
	startTime   time.Time
	retryDelay  time.Duration
	log         *zap.SugaredLogger
}

func NewHealthService(dbPool Pinger, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		dbPool:      dbPool,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		retryDelay:  100 * time.Millisecond,
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	dbStatus := h.checkDatabase(ctx)
	components["database"] = dbStatus
	overallStatus = worst(overallStatus, dbStatus.Status)

	redisStatus := h.checkRedis(ctx)
	components["redis"] = redisStatus
	overallStatus = worst(overallStatus, redisStatus.Status)

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func worst(current, next types.HealthStatus) types.HealthStatus {
	switch {
	case current == types.HealthStatusDown || next == types.HealthStatusDown:
		return types.HealthStatusDown
	case current == types.HealthStatusDegraded || next == types.HealthStatusDegraded:
		return types.HealthStatusDegraded
	default:
		return types.HealthStatusUp
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if h.dbPool == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "Database not configured"}
	}

	var err error
	for attempt := 1; attempt <= dbPingAttempts; attempt++ {
		if err = h.dbPool.Ping(ctx); err == nil {
			if attempt > 1 {
				return types.HealthComponent{
					Status:  types.HealthStatusDegraded,
					Details: "Database answered after retry",
				}
			}
			return types.HealthComponent{Status: types.HealthStatusUp}
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < dbPingAttempts && h.retryDelay > 0 {
			time.Sleep(h.retryDelay)
		}
	}

	h.log.Errorw("Database health check failed", "error", err)
	return types.HealthComponent{
		Status:  types.HealthStatusDown,
		Details: "Database connection failed after multiple attempts",
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "Redis not configured"}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
