package data

import (
	"context"
	"time"
)

// Health reports the status of the database and, when configured, Redis.
func (d *Data) Health(ctx context.Context) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	healthy := true
	services := map[string]any{}

	if err := d.DB.PingContext(ctx); err != nil {
		services["database"] = map[string]any{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		stats := d.DB.Stats()
		services["database"] = map[string]any{
			"status":           "healthy",
			"driver":           d.Dialect.Name,
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			services["redis"] = map[string]any{"status": "unhealthy", "error": err.Error()}
			healthy = false
		} else {
			services["redis"] = map[string]any{"status": "healthy"}
		}
	}

	return map[string]any{"timestamp": time.Now(), "services": services}, healthy
}
