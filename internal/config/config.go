package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Server     ServerConfig
	Admin      AdminConfig
	Attendance AttendanceConfig
	Scanner    ScannerConfig
	Notify     NotifyConfig
	Dashboard  DashboardConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port int
	// PublicBaseURL is printed on the poster QR. Empty means http://<local-ip>:<port>.
	PublicBaseURL string
}

type DatabaseConfig struct {
	Driver          string // sqlite | postgres | oracle
	Path            string // sqlite file
	Host            string
	Port            int
	Service         string // oracle service / postgres database name
	User            string
	Password        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	IsAutoMigrate   bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// AdminConfig holds the credential seeded when the credential table is empty.
type AdminConfig struct {
	Username string
	Password string
	Role     string
}

type AttendanceConfig struct {
	TimeZone     string
	DefaultEvent string
}

type ScannerConfig struct {
	Enabled       bool
	Source        string // "stdin" or a file/device path that yields one decoded token per line
	DedupWindow   time.Duration
	EvictInterval time.Duration
}

type NotifyConfig struct {
	PostmarkToken string
	FromEmail     string
	QRDir         string
	QRSize        int
	SendTimeout   time.Duration
	// AdvisoryWait bounds how long the registration response waits for the delivery result.
	AdvisoryWait time.Duration
}

type DashboardConfig struct {
	RefreshInterval time.Duration
	AbsentWeeks     int
	TopN            int
}

func Load(env string) (*Config, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:          getEnv("APP_NAME", "ncc-attendance"),
			Env:           env,
			Port:          getEnvAsInt("APP_PORT", 5000),
			PublicBaseURL: getEnv("APP_PUBLIC_BASE_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:            getEnv("DB_PATH", "attendance.db"),
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvAsInt("DB_PORT", 0),
			Service:         getEnv("DB_SERVICE", ""),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 4),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 16),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "1h"),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "10m"),
			IsAutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", "12h"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},
		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			GracefulTimeout: getEnvAsDuration("GRACEFUL_TIMEOUT", "30s"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "1234"),
			Role:     getEnv("ADMIN_ROLE", "super"),
		},
		Attendance: AttendanceConfig{
			TimeZone:     getEnv("ATTENDANCE_TIME_ZONE", "Local"),
			DefaultEvent: getEnv("ATTENDANCE_DEFAULT_EVENT", "General"),
		},
		Scanner: ScannerConfig{
			Enabled:       getEnvAsBool("SCANNER_ENABLED", false),
			Source:        getEnv("SCANNER_SOURCE", "stdin"),
			DedupWindow:   getEnvAsDuration("SCANNER_DEDUP_WINDOW", "2s"),
			EvictInterval: getEnvAsDuration("SCANNER_EVICT_INTERVAL", "1m"),
		},
		Notify: NotifyConfig{
			PostmarkToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
			FromEmail:     getEnv("NOTIFY_FROM_EMAIL", ""),
			QRDir:         getEnv("NOTIFY_QR_DIR", "qr"),
			QRSize:        getEnvAsInt("NOTIFY_QR_SIZE", 264),
			SendTimeout:   getEnvAsDuration("NOTIFY_SEND_TIMEOUT", "20s"),
			AdvisoryWait:  getEnvAsDuration("NOTIFY_ADVISORY_WAIT", "3s"),
		},
		Dashboard: DashboardConfig{
			RefreshInterval: getEnvAsDuration("DASHBOARD_REFRESH_INTERVAL", "30s"),
			AbsentWeeks:     getEnvAsInt("DASHBOARD_ABSENT_WEEKS", 3),
			TopN:            getEnvAsInt("DASHBOARD_TOP_N", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(env string) error {
	envFile := fmt.Sprintf(".env.%s", env)

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Warn("env file not found, falling back to process environment", "file", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	absPath, _ := filepath.Abs(envFile)
	slog.Info("env file loaded", "file", absPath)
	return nil
}

func (c *Config) Validate() error {
	var errors []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		errors = append(errors, "invalid port number")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errors = append(errors, "DB_PATH is required for sqlite")
		}
	case "postgres", "oracle":
		if c.Database.Host == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if c.Database.Service == "" {
			errors = append(errors, "DB_SERVICE is required")
		}
		if c.Database.User == "" {
			errors = append(errors, "DB_USER is required")
		}
	default:
		errors = append(errors, fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if len(c.JWT.Secret) < 32 {
		errors = append(errors, "JWT_SECRET must be at least 32 characters")
	}

	if c.Admin.Username == "" || c.Admin.Password == "" {
		errors = append(errors, "ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	if _, err := time.LoadLocation(c.Attendance.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ATTENDANCE_TIME_ZONE %q", c.Attendance.TimeZone))
	}

	if c.Scanner.DedupWindow <= 0 {
		errors = append(errors, "SCANNER_DEDUP_WINDOW must be positive")
	}

	if c.Notify.QRSize < 21 {
		errors = append(errors, "NOTIFY_QR_SIZE must be at least 21")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, ", "))
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "prod"
}

// Location returns the time zone that defines attendance days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if defaultDuration, err := time.ParseDuration(defaultValue); err == nil {
		return defaultDuration
	}
	return 0
}
