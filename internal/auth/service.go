package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/database"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
	"github.com/nccmultimedia/attendance-server/internal/shared/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the credential gate in front of the management API.
type AuthService struct {
	db                   *gorm.DB
	credentialRepository *CredentialRepository
	tokenManager         token.Manager
}

func NewAuthService(db *gorm.DB, credentialRepository *CredentialRepository, tokenManager token.Manager) *AuthService {
	return &AuthService{
		db:                   db,
		credentialRepository: credentialRepository,
		tokenManager:         tokenManager,
	}
}

func (a *AuthService) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	cred, err := a.verify(ctx, a.db, request.Username, request.Password)
	if err != nil {
		if errors.Is(err, ErrIncorrectCredentials) {
			log.Warn("Login rejected", "username", request.Username)
		}
		return nil, err
	}

	accessToken, expiresAt, err := a.tokenManager.GenerateAccessToken(
		strconv.FormatUint(uint64(cred.ID), 10), cred.Username, cred.Role)
	if err != nil {
		log.Error("Failed to generate access token", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.Info("Operator logged in", "username", cred.Username)

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Username:    cred.Username,
		Role:        cred.Role,
	}, nil
}

// ChangePassword replaces the password of username after checking the
// current one.
func (a *AuthService) ChangePassword(ctx context.Context, username, current, next string) error {
	return database.WithTransaction(ctx, a.db, func(tx *gorm.DB) error {
		cred, err := a.verify(ctx, tx, username, current)
		if err != nil {
			return err
		}
		return a.setPassword(ctx, tx, cred, next)
	})
}

// SetPassword replaces the password of username, creating the account if it
// does not exist. It is meant for the local admin CLI only.
func (a *AuthService) SetPassword(ctx context.Context, username, password, role string) error {
	return database.WithTransaction(ctx, a.db, func(tx *gorm.DB) error {
		cred, err := a.credentialRepository.FindByUsername(ctx, tx, username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, err := hashPassword(password)
			if err != nil {
				return err
			}
			if err := a.credentialRepository.Create(ctx, tx, model.NewCredential(username, hash, role)); err != nil {
				return fmt.Errorf("create credential: %w", err)
			}
			logger.FromContext(ctx).Info("Operator account created", "username", username)
			return nil
		}
		if err != nil {
			return fmt.Errorf("find credential: %w", err)
		}
		return a.setPassword(ctx, tx, cred, password)
	})
}

func (a *AuthService) verify(ctx context.Context, db *gorm.DB, username, password string) (*model.Credential, error) {
	cred, err := a.credentialRepository.FindByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same answer as a wrong password
			return nil, fmt.Errorf("unknown username: %w", ErrIncorrectCredentials)
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("password mismatch: %w", ErrIncorrectCredentials)
	}
	return cred, nil
}

func (a *AuthService) setPassword(ctx context.Context, db *gorm.DB, cred *model.Credential, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := a.credentialRepository.UpdatePasswordHash(ctx, db, cred.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	logger.FromContext(ctx).Info("Operator password changed", "username", cred.Username)
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
