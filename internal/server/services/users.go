package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/dbelyakov/noteleaf/internal/server/auth"
	"github.com/dbelyakov/noteleaf/internal/server/config"
	"github.com/dbelyakov/noteleaf/internal/server/mail"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/dbelyakov/noteleaf/internal/server/oauth"
	"github.com/dbelyakov/noteleaf/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthResult is the contract every successful authentication path
// (register, login, Google) returns to the client.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type UserService struct {
	db                        *sql.DB
	repomanager               repomanager.RepositoryManager
	oauthProvider             oauth.Provider
	mailer                    mail.Mailer
	jwtSecret                 []byte
	tokenValidityDuration     time.Duration
	resetCodeValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, p oauth.Provider, mailer mail.Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:                        db,
		repomanager:               m,
		oauthProvider:             p,
		mailer:                    mailer,
		jwtSecret:                 []byte(cfg.SecretKey),
		tokenValidityDuration:     cfg.TokenValidityDuration,
		resetCodeValidityDuration: cfg.ResetCodeValidityDuration,
	}
}

func (s *UserService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Register creates a password account. A taken email yields
// common.ErrorAlreadyExists; on success the user is logged in
// immediately.
func (s *UserService) Register(ctx context.Context, email, password string, name *string) (*AuthResult, error) {

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	hashStr := string(hash)

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: &hashStr, Name: name})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueToken(user)
}

// Login authenticates a password account. Unknown email and wrong
// password are indistinguishable: both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	// OAuth-only accounts have no password to compare against.
	if user.PasswordHash == nil {
		return nil, common.ErrorUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issueToken(user)
}

// GoogleAuthURL returns the provider consent URL the client redirects to.
func (s *UserService) GoogleAuthURL() string {
	return s.oauthProvider.AuthURL()
}

// GoogleAuth exchanges the authorization code, then finds or creates the
// account by email. An existing password account with the same email has
// the Google identity linked to it instead of creating a duplicate.
func (s *UserService) GoogleAuth(ctx context.Context, code string) (*AuthResult, error) {

	profile, err := s.oauthProvider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}

	repo := s.repomanager.Users(s.db)

	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	user, err := repo.GetByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		var name *string
		if profile.Name != "" {
			name = &profile.Name
		}
		user, err = repo.Create(ctx, &models.User{
			Email:    profile.Email,
			GoogleID: &profile.Subject,
			Name:     name,
			Avatar:   avatar,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
	case err != nil:
		return nil, common.ErrorInternal
	case user.GoogleID == nil:
		user, err = repo.LinkGoogleAccount(ctx, profile.Email, profile.Subject, avatar)
		if err != nil {
			return nil, fmt.Errorf("error linking account: %w", err)
		}
	}

	return s.issueToken(user)
}

// ForgotPassword issues a one-time reset code for a known email and
// hands it to the mailer. An unknown email returns common.ErrorNotFound;
// surfacing account existence here is a deliberate contract choice.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	otp, err := common.GenerateOTP()
	if err != nil {
		return common.ErrorInternal
	}

	resetToken, err := auth.GenerateResetToken(email, otp, s.jwtSecret, s.resetCodeValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}

	expiry := time.Now().Add(s.resetCodeValidityDuration)
	if err := repo.SetResetToken(ctx, email, resetToken, expiry); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.mailer.SendResetCode(ctx, email, otp); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}

	return nil
}

// ResetPassword consumes a previously issued code. The stored envelope
// is verified for signature, expiry, email and code; any mismatch is
// ErrorInvalidOrExpiredCode. The code is single-use: the replacement
// password update clears the stored token.
func (s *UserService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidOrExpiredCode
		}
		return common.ErrorInternal
	}

	if user.ResetToken == nil || user.ResetTokenExpiry == nil {
		return common.ErrorInvalidOrExpiredCode
	}

	if time.Now().After(*user.ResetTokenExpiry) {
		return common.ErrorInvalidOrExpiredCode
	}

	if err := auth.VerifyResetToken(*user.ResetToken, email, otp, s.jwtSecret); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}
