package testutil

import (
	"time"

	"github.com/nccmultimedia/attendance-server/internal/shared/token"
)

// MockTokenManager is a mock implementation of token.Manager for testing
type MockTokenManager struct {
	GenerateAccessTokenFunc func(operatorID, username, role string) (string, time.Time, error)
	ValidateTokenFunc       func(tokenString string) (*token.Claims, error)
}

func (m *MockTokenManager) GenerateAccessToken(operatorID, username, role string) (string, time.Time, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(operatorID, username, role)
	}
	return "mock-access-token", time.Now().Add(time.Hour), nil
}

// ValidateToken accepts "mock-access-token" as operator 1 by default.
func (m *MockTokenManager) ValidateToken(tokenString string) (*token.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	if tokenString != "mock-access-token" {
		return nil, token.ErrInvalidToken
	}
	return &token.Claims{OperatorID: "1", Username: "admin", Role: "super"}, nil
}

// Ensure MockTokenManager implements token.Manager
var _ token.Manager = (*MockTokenManager)(nil)

// NewMockTokenManager creates a new mock token manager with default behavior
func NewMockTokenManager() *MockTokenManager {
	return &MockTokenManager{}
}
