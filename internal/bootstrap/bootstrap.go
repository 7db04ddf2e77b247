package bootstrap

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/shared/middleware"
)

// Bootstrap handles the middleware every route shares.
type Bootstrap struct {
	cfg     *config.Config
	metrics *metrics.Registry
}

func NewBootstrap(cfg *config.Config, m *metrics.Registry) *Bootstrap {
	return &Bootstrap{
		cfg:     cfg,
		metrics: m,
	}
}

// SetupEngine creates a gin engine with recovery, request IDs, CORS, request
// timeouts, structured logging and request metrics. Paths in longLived skip
// the timeout.
func (b *Bootstrap) SetupEngine(longLived ...string) *gin.Engine {
	if b.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// slog does the logging
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	engine := gin.New()

	engine.Use(gin.CustomRecovery(b.recoveryHandler))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(b.cfg))
	engine.Use(middleware.Timeout(middleware.DefaultTimeout, longLived...))
	engine.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	engine.Use(middleware.Metrics(b.metrics))

	return engine
}

func (b *Bootstrap) recoveryHandler(c *gin.Context, recovered interface{}) {
	slog.Error("Panic recovered",
		"error", recovered,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.GetRequestID(c),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error", "request_id": middleware.GetRequestID(c),
	})
}
