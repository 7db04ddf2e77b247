package auth

import (
	"net/http"

	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
)

const (
	incorrectCredentials = "INCORRECT_CREDENTIALS" // errInfo
	credentialNotFound   = "CREDENTIAL_NOT_FOUND"  // errInfo
)

var (
	ErrIncorrectCredentials = sharedError.NewDomainError(incorrectCredentials)
	ErrCredentialNotFound   = sharedError.NewDomainError(credentialNotFound)
)

func init() {
	sharedError.RegisterDomainErrorResponse(incorrectCredentials, sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-003",
		Message: "Incorrect username or password.",
	})
	sharedError.RegisterDomainErrorResponse(credentialNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "AUTH-004",
		Message: "Operator account not found.",
	})
}
