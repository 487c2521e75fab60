package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/parceltrack/console/internal/client/models"
	"github.com/parceltrack/console/internal/client/rest"
	"github.com/parceltrack/console/internal/common"
)

// Pair is the credential pair issued by the API.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (p Pair) complete() error {
	if p.Access == "" {
		return fmt.Errorf("%w: access", ErrIncompletePair)
	}
	if p.Refresh == "" {
		return fmt.Errorf("%w: refresh", ErrIncompletePair)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a pair and stores both tokens together.
// A rejection from the server is returned as *rest.Error with the payload
// intact.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (Pair, error) {
	req, err := rest.NewJSONRequest(ctx, http.MethodPost, rest.JoinURL(m.baseURL, common.TokenPath), loginRequest{Username: identifier, Password: secret})
	if err != nil {
		return Pair{}, err
	}

	resp, err := m.tokenClient().Do(req)
	if err != nil {
		return Pair{}, err
	}

	var pair Pair
	if err := rest.Decode(resp, &pair); err != nil {
		return Pair{}, err
	}
	if err := m.storePair(ctx, pair); err != nil {
		return Pair{}, err
	}

	m.log.Info(ctx, "logged in")
	return pair, nil
}

type registerResponse struct {
	Pair
	User models.User `json:"user"`
}

// Register creates an account and starts a session with the pair returned
// alongside the new user.
func (m *Manager) Register(ctx context.Context, data models.RegisterData) (models.User, error) {
	req, err := rest.NewJSONRequest(ctx, http.MethodPost, rest.JoinURL(m.baseURL, common.RegisterPath), data)
	if err != nil {
		return models.User{}, err
	}

	resp, err := m.tokenClient().Do(req)
	if err != nil {
		return models.User{}, err
	}

	var body registerResponse
	if err := rest.Decode(resp, &body); err != nil {
		return models.User{}, err
	}

	if err := m.storePair(ctx, body.Pair); err != nil {
		return models.User{}, err
	}

	m.log.Info(ctx, "registered", "user_id", body.User.ID)
	return body.User, nil
}

// Logout clears both tokens and then moves to the landing route. The server
// is not contacted.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	m.nav.Navigate(m.landingRoute)
	m.log.Info(ctx, "logged out")
	return nil
}

func (m *Manager) storePair(ctx context.Context, pair Pair) error {
	if err := pair.complete(); err != nil {
		return err
	}
	err := m.store.Set(ctx, map[string]string{
		common.AccessTokenKey:  pair.Access,
		common.RefreshTokenKey: pair.Refresh,
	})
	if err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	return nil
}
