package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

// SchemaStats reports how far the visit/assessment schema has been migrated.
// Pending migrations mean the engine may be running against tables it does
// not expect; the health payload surfaces that before a handler does.
type SchemaStats struct {
	Version int `json:"version"`
	Pending int `json:"pending"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

func schemaStats(statuses []MigrationStatus) SchemaStats {
	var s SchemaStats
	for _, st := range statuses {
		if st.Applied {
			if st.Version > s.Version {
				s.Version = st.Version
			}
		} else {
			s.Pending++
		}
	}
	return s
}

// HealthHandler checks database reachability and reports the pool and the
// migration state of the engine's schema.
func HealthHandler(pool *pgxpool.Pool, migrator *Migrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		stats := GetPoolStats(pool)

		if err := pool.Ping(ctx); err != nil {
			stats.Healthy = false
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
				"pool":   stats,
			})
		}

		payload := map[string]interface{}{
			"status": "healthy",
			"pool":   stats,
		}
		if statuses, err := migrator.Status(ctx); err == nil {
			schema := schemaStats(statuses)
			payload["schema"] = schema
			if schema.Pending > 0 {
				payload["status"] = "degraded"
			}
		}

		return c.JSON(http.StatusOK, payload)
	}
}
