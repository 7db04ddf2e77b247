package live

import (
	ws "github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// Handler upgrades GET /ws/scans to a feed client.
func Handler(hub *Hub, originPatterns []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := &ws.AcceptOptions{OriginPatterns: originPatterns}
		for _, p := range originPatterns {
			if p == "*" {
				opts.InsecureSkipVerify = true
			}
		}

		conn, err := ws.Accept(c.Writer, c.Request, opts)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("WebSocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn).Run(c.Request.Context())
	}
}
