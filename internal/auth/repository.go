package auth

import (
	"context"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"gorm.io/gorm"
)

type CredentialRepository struct{}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{}
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.Credential, error) {
	var cred model.Credential
	if err := db.WithContext(ctx).Where("username = ?", username).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *CredentialRepository) Create(ctx context.Context, db *gorm.DB, cred *model.Credential) error {
	return db.WithContext(ctx).Create(cred).Error
}

func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, db *gorm.DB, ID uint32, hash string) error {
	return db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("id = ?", ID).
		Update("password_hash", hash).Error
}
