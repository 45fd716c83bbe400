package services

import (
	"context"

	"github.com/dbelyakov/noteleaf/internal/client/api"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login / GoogleAuth: authenticate against the server and
//     store the issued bearer token for subsequent requests.
//   - ForgotPassword / ResetPassword: email-code password recovery.
//   - Logout: drop the stored token.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, email, password string, name *string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleAuth(ctx context.Context, code string) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	Logout()
	IsLoggedIn() bool
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by the HTTP API client.
type authService struct {
	client *api.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client *api.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Register(ctx context.Context, email, password string, name *string) (*api.AuthResponse, error) {
	resp, err := a.client.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	a.client.SetToken(resp.Token)
	return resp, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.client.SetToken(resp.Token)
	return resp, nil
}

func (a *authService) GoogleAuthURL(ctx context.Context) (string, error) {
	return a.client.GoogleAuthURL(ctx)
}

func (a *authService) GoogleAuth(ctx context.Context, code string) (*api.AuthResponse, error) {
	resp, err := a.client.GoogleAuth(ctx, code)
	if err != nil {
		return nil, err
	}
	a.client.SetToken(resp.Token)
	return resp, nil
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return a.client.ResetPassword(ctx, email, otp, newPassword)
}

// Logout drops the bearer token. Cached local notes are kept: they belong
// to the device, not the account.
func (a *authService) Logout() {
	a.client.ClearToken()
}

func (a *authService) IsLoggedIn() bool {
	return a.client.Token() != ""
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
