package meta

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/scan"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// ScannerStatus reports whether the scan loop currently holds its source.
type ScannerStatus interface {
	Status() scan.Status
}

// Handler handles meta endpoints (health check)
type Handler struct {
	cfg     *config.Config
	db      *database.DB
	scanner ScannerStatus
}

func NewHandler(cfg *config.Config, db *database.DB, scanner ScannerStatus) *Handler {
	return &Handler{
		cfg:     cfg,
		db:      db,
		scanner: scanner,
	}
}

// Health checks service and database health. The scanner is reported but
// never makes the service unhealthy.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	service := gin.H{
		"name":        h.cfg.App.Name,
		"environment": h.cfg.App.Env,
	}

	start := time.Now()
	if err := h.db.HealthCheck(ctx); err != nil {
		logger.FromContext(ctx).Error("Health check failed", "error", err)

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": service,
			"checks": gin.H{
				"database": gin.H{
					"status": "down",
					"error":  err.Error(),
				},
			},
		})
		return
	}
	dbLatency := time.Since(start).Milliseconds()

	checks := gin.H{
		"database": gin.H{
			"status":     "up",
			"latency_ms": dbLatency,
		},
	}
	if h.scanner != nil {
		checks["scanner"] = h.scanner.Status()
	}

	service["port"] = h.cfg.App.Port
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": service,
		"checks":  checks,
	})
}
