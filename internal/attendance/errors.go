package attendance

import (
	"net/http"

	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
)

const (
	invalidDay = "INVALID_DAY" // errInfo
)

var (
	ErrInvalidDay = sharedError.NewDomainError(invalidDay)
)

func init() {
	sharedError.RegisterDomainErrorResponse(invalidDay, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ATTENDANCE-001",
		Message: "Dates must be formatted as YYYY-MM-DD.",
	})
}
