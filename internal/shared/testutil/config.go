package testutil

import (
	"time"

	"github.com/nccmultimedia/attendance-server/internal/config"
)

// NewTestConfig creates a test configuration
// This removes the need for environment variables during testing
func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:          "ncc-attendance-test",
			Env:           "test",
			Port:          5000,
			PublicBaseURL: "http://attendance.test",
		},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			Path:            ":memory:",
			MaxIdleConns:    4,
			MaxOpenConns:    8,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			IsAutoMigrate:   true,
		},
		JWT: config.JWTConfig{
			Secret: "test-jwt-secret-key-must-be-at-least-32-characters-long",
			Expiry: time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Server: config.ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 30 * time.Second,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "1234",
			Role:     "super",
		},
		Attendance: config.AttendanceConfig{
			TimeZone:     "UTC",
			DefaultEvent: "General",
		},
		Scanner: config.ScannerConfig{
			Source:        "stdin",
			DedupWindow:   2 * time.Second,
			EvictInterval: time.Minute,
		},
		Notify: config.NotifyConfig{
			FromEmail:    "attendance@example.com",
			QRDir:        "qr",
			QRSize:       256,
			SendTimeout:  5 * time.Second,
			AdvisoryWait: time.Second,
		},
		Dashboard: config.DashboardConfig{
			RefreshInterval: time.Minute,
			AbsentWeeks:     3,
			TopN:            5,
		},
	}
}
