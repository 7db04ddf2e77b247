package context

import (
	"net/http"

	"github.com/gin-gonic/gin"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// Context keys for the authenticated operator
const (
	OperatorIDKey   = "operator_id"
	OperatorNameKey = "operator_name"
	OperatorRoleKey = "operator_role"
)

// Operator is the management user attached by the JWT middleware.
type Operator struct {
	ID       string
	Username string
	Role     string
}

func GetOperator(c *gin.Context) (Operator, bool) {
	id := c.GetString(OperatorIDKey)
	if id == "" {
		return Operator{}, false
	}
	return Operator{
		ID:       id,
		Username: c.GetString(OperatorNameKey),
		Role:     c.GetString(OperatorRoleKey),
	}, true
}

// RequireOperator returns the authenticated operator or aborts with 401.
func RequireOperator(c *gin.Context) (Operator, bool) {
	op, ok := GetOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "Please sign in.",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("operator missing from request context")
		return Operator{}, false
	}
	return op, true
}
