package scan

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
)

const stopTimeout = 5 * time.Second

type SubmitRequest struct {
	Token string `json:"token" binding:"required,max=2048"`
}

type ScannerHandler struct {
	controller *Controller
}

func NewScannerHandler(controller *Controller) *ScannerHandler {
	return &ScannerHandler{controller: controller}
}

func (h *ScannerHandler) Start(c *gin.Context) {
	if err := h.controller.Start(); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.controller.Status())
}

func (h *ScannerHandler) Stop(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), stopTimeout)
	defer cancel()

	if err := h.controller.Stop(ctx); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.controller.Status())
}

func (h *ScannerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Status())
}

// Submit serves POST /scanner/scan for decoders outside the process.
func (h *ScannerHandler) Submit(c *gin.Context) {
	var request SubmitRequest
	if !handler.BindJSON(c, &request) {
		return
	}
	c.JSON(http.StatusOK, h.controller.Submit(c.Request.Context(), request.Token))
}
