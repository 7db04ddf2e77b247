package scan

import (
	"net/http"

	sharedError "github.com/nccmultimedia/attendance-server/internal/shared/error"
)

const (
	scannerRunning = "SCANNER_RUNNING"     // errInfo
	scannerStopped = "SCANNER_NOT_RUNNING" // errInfo
)

var (
	ErrScannerRunning    = sharedError.NewDomainError(scannerRunning)
	ErrScannerNotRunning = sharedError.NewDomainError(scannerStopped)
)

func init() {
	sharedError.RegisterDomainErrorResponse(scannerRunning, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SCANNER-001",
		Message: "The scanner is already running.",
	})
	sharedError.RegisterDomainErrorResponse(scannerStopped, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SCANNER-002",
		Message: "The scanner is not running.",
	})
}
