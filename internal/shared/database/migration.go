package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nccmultimedia/attendance-server/internal/config"
	"github.com/nccmultimedia/attendance-server/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models lists every table in dependency order (FK targets first).
var Models = []interface{}{
	&model.Member{},
	&model.Credential{},
	&model.Attendance{},
}

// Migrate creates or extends tables from the model definitions. It never drops
// data: the unique (member_id, attendance_date) index is part of the schema.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("database migration disabled", "auto_migrate", false, "env", cfg.App.Env)
		return nil
	}

	slog.Info("database migration started", "driver", cfg.Database.Driver)
	if err := AutoMigrate(db); err != nil {
		return err
	}
	slog.Info("database migration finished")
	return nil
}

// AutoMigrate runs GORM auto-migration for Models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
		slog.Debug("table migrated", "model", fmt.Sprintf("%T", m))
	}
	return nil
}

// SeedCredential inserts the configured operator credential when the
// credential table is empty. Existing credentials are left untouched.
func SeedCredential(ctx context.Context, db *gorm.DB, admin config.AdminConfig) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Credential{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count credentials: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	cred := model.NewCredential(admin.Username, string(hash), admin.Role)
	if err := db.WithContext(ctx).Create(cred).Error; err != nil {
		// another process seeded first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create default credential: %w", err)
	}

	slog.Warn("default operator credential seeded; change the password", "username", admin.Username)
	return nil
}
