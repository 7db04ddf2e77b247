package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
	"github.com/nccmultimedia/attendance-server/internal/shared/validator"
)

// BindJSON parses and validates JSON request body
// Returns true if binding succeeded, false if failed (response already sent)
//
// Usage:
//
//	var req RegisterRequest
//	if !handler.BindJSON(c, &req) {
//	    return
//	}
func BindJSON(c *gin.Context, obj any) bool {
	return bind(c, obj, c.ShouldBindJSON)
}

// BindQuery binds and validates query string parameters.
func BindQuery(c *gin.Context, obj any) bool {
	return bind(c, obj, c.ShouldBindQuery)
}

func bind(c *gin.Context, obj any, fn func(any) error) bool {
	if err := fn(obj); err != nil {
		c.Error(err)

		if resp, ok := validator.ToErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, resp)
		} else {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
		}
		return false
	}
	return true
}

// RespondError sends an error response with logging
//
// Usage:
//
//	if err := service.DoSomething(); err != nil {
//	    handler.RespondError(c, err, sharedError.InternalServerError)
//	    return
//	}
func RespondError(c *gin.Context, err error, errResp sharedError.ErrorResponse) {
	c.Error(err)
	c.JSON(errResp.Status, errResp)
}

// RespondDomainError resolves err against the domain error registry and
// falls back to 500 for anything unregistered.
func RespondDomainError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		RespondError(c, err, resp)
		return
	}
	if errors.Is(err, c.Request.Context().Err()) && c.Request.Context().Err() != nil {
		RespondError(c, err, sharedError.ErrorResponse{
			Status:  http.StatusServiceUnavailable,
			Code:    "ERROR-005",
			Message: "The request timed out.",
		})
		return
	}
	RespondError(c, err, sharedError.InternalServerError)
}
