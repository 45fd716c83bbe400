package users

import (
	"context"
	"time"

	"github.com/dbelyakov/noteleaf/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	LinkGoogleAccount(ctx context.Context, email, googleID string, avatar *string) (*models.User, error)
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}
