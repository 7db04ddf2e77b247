package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	sharedContext "github.com/nccmultimedia/attendance-server/internal/shared/context"
	"github.com/nccmultimedia/attendance-server/internal/shared/handler"
)

type AuthHandler struct {
	authService *AuthService
}

func NewAuthHandler(authService *AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (a *AuthHandler) Login(c *gin.Context) {
	var request LoginRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := a.authService.Login(c.Request.Context(), &request)
	if err != nil {
		handler.RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the operator behind the access token.
func (a *AuthHandler) Me(c *gin.Context) {
	op, ok := sharedContext.RequireOperator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, OperatorResponse{ID: op.ID, Username: op.Username, Role: op.Role})
}

func (a *AuthHandler) ChangePassword(c *gin.Context) {
	op, ok := sharedContext.RequireOperator(c)
	if !ok {
		return
	}

	var request ChangePasswordRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	if err := a.authService.ChangePassword(c.Request.Context(), op.Username, request.CurrentPassword, request.NewPassword); err != nil {
		handler.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
