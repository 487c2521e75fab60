// Package services contains application services for the parceltrack
// consoles. This file defines the authentication service: login, register,
// logout, hydration of the signed-in user and the route guard.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/parceltrack/console/internal/client/client"
	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/common"
	"github.com/parceltrack/console/internal/session"
)

// Sessions is the part of session.Manager the auth service drives.
type Sessions interface {
	Login(ctx context.Context, identifier, secret string) (session.Pair, error)
	Register(ctx context.Context, data models.RegisterData) (models.User, error)
	Logout(ctx context.Context) error
	IsSessionValid(ctx context.Context) bool
}

// AuthService defines authentication operations for the consoles.
//
// Contract:
//   - Login: obtain a credential pair, then load the signed-in user.
//   - Register: create an account; the new session starts immediately.
//   - Logout: drop the credential pair and leave for the landing route.
//   - CurrentUser: load the signed-in user, or nil without a valid session.
//   - Guard: refuse (and redirect to login) when the session is not valid.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, data models.RegisterData) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Guard(ctx context.Context) error
}

type authService struct {
	sessions   Sessions
	client     client.Client
	nav        session.Navigator
	loginRoute string
}

// NewAuthService binds the service to a session manager, the API client and
// the navigator that guarded screens redirect through.
func NewAuthService(sessions Sessions, c client.Client, nav session.Navigator, loginRoute string) AuthService {
	if loginRoute == "" {
		loginRoute = common.LoginRoute
	}
	return &authService{sessions: sessions, client: c, nav: nav, loginRoute: loginRoute}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	if _, err := a.sessions.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.CurrentUser(ctx)
}

func (a *authService) Register(ctx context.Context, data models.RegisterData) (*models.User, error) {
	if data.Password != data.PasswordConfirm {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	user, err := a.sessions.Register(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return &user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}

// CurrentUser only calls the API when the stored access token looks valid.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	if !a.sessions.IsSessionValid(ctx) {
		return nil, nil
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	return &user, nil
}

func (a *authService) Guard(ctx context.Context) error {
	if a.sessions.IsSessionValid(ctx) {
		return nil
	}
	if !strings.Contains(a.nav.CurrentRoute(), a.loginRoute) {
		a.nav.Navigate(a.loginRoute)
	}
	return common.ErrorUnauthorized
}
