package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parceltrack/console/internal/client/rest"
	"github.com/parceltrack/console/internal/common"
	"github.com/parceltrack/console/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Options configures a Manager. BaseURL, Store and Navigator are required.
type Options struct {
	BaseURL   string
	Store     Store
	Navigator Navigator

	// Transport sends requests on the wire. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Timeout bounds each request made through HTTPClient and each token
	// call. Zero means no timeout.
	Timeout time.Duration

	// LoginRoute is where the user is sent when the session cannot be
	// recovered. LandingRoute is where Logout leaves them.
	LoginRoute   string
	LandingRoute string

	// SharedRefresh collapses concurrent refreshes of the same refresh token
	// into one network call.
	SharedRefresh bool

	Logger  logging.Logger
	Metrics *Metrics
	Now     func() time.Time
}

type Manager struct {
	baseURL      string
	store        Store
	nav          Navigator
	next         http.RoundTripper
	timeout      time.Duration
	loginRoute   string
	landingRoute string
	shared       bool
	group        singleflight.Group
	log          logging.Logger
	metrics      *Metrics
	now          func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.Navigator == nil {
		return nil, fmt.Errorf("navigator is required")
	}

	m := &Manager{
		baseURL:      opts.BaseURL,
		store:        opts.Store,
		nav:          opts.Navigator,
		next:         opts.Transport,
		timeout:      opts.Timeout,
		loginRoute:   opts.LoginRoute,
		landingRoute: opts.LandingRoute,
		shared:       opts.SharedRefresh,
		log:          opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
	}
	if m.next == nil {
		m.next = http.DefaultTransport
	}
	if m.loginRoute == "" {
		m.loginRoute = common.LoginRoute
	}
	if m.landingRoute == "" {
		m.landingRoute = m.loginRoute
	}
	if m.log == nil {
		m.log = logging.NewDiscard()
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// BaseURL is the API origin requests are resolved against.
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// HTTPClient returns a client whose requests all go through the Manager.
func (m *Manager) HTTPClient() *http.Client {
	return &http.Client{Transport: m, Timeout: m.timeout}
}

// tokenClient talks to the token endpoints directly, bypassing credential
// attachment and 401 recovery.
func (m *Manager) tokenClient() *http.Client {
	return &http.Client{Transport: m.next, Timeout: m.timeout}
}

// RoundTrip implements http.RoundTripper: attach, send, handle.
func (m *Manager) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	out := NewOutbound(req.Clone(ctx))
	if out.Payload.Header.Get(common.RequestIDHeaderName) == "" {
		out.Payload.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	m.AttachCredential(ctx, out.Payload)

	resp, err := m.send(out)
	return m.HandleResponse(ctx, out, resp, err)
}

func (m *Manager) send(out Outbound) (*http.Response, error) {
	resp, err := m.next.RoundTrip(out.Payload)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	m.metrics.observeRequest(out.Attempt, code, err)
	m.log.Debug(out.Payload.Context(), "request sent",
		"request_id", out.Payload.Header.Get(common.RequestIDHeaderName),
		"method", out.Payload.Method,
		"path", out.Payload.URL.Path,
		"attempt", out.Attempt.String(),
		"status", code,
	)
	return resp, err
}

// AttachCredential sets the bearer header from the stored access token.
// Without a token the request is left untouched.
func (m *Manager) AttachCredential(ctx context.Context, req *http.Request) {
	if token := m.read(ctx, common.AccessTokenKey); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
}

// IsSessionValid reports whether a stored access token exists and has not
// expired. It never touches the network.
func (m *Manager) IsSessionValid(ctx context.Context) bool {
	token := m.read(ctx, common.AccessTokenKey)
	if token == "" {
		return false
	}
	return ValidAt(token, m.now())
}

// SessionExpiry decodes the expiry of the stored access token. It fails with
// ErrNoAccessToken when nothing is stored.
func (m *Manager) SessionExpiry(ctx context.Context) (time.Time, error) {
	token := m.read(ctx, common.AccessTokenKey)
	if token == "" {
		return time.Time{}, ErrNoAccessToken
	}
	return ExpiresAt(token)
}

// HandleResponse post-processes the outcome of out. Everything except a 401
// on a first attempt is returned unchanged. Such a 401 is recovered by one
// refresh and one replay; when recovery is impossible the user is sent to the
// login route.
func (m *Manager) HandleResponse(ctx context.Context, out Outbound, resp *http.Response, err error) (*http.Response, error) {
	if err != nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	retry, rerr := out.Retry()
	if rerr != nil {
		m.log.Debug(ctx, "401 passed through", "request_id", requestID(out), "reason", rerr.Error())
		return resp, nil
	}

	refreshToken := m.read(ctx, common.RefreshTokenKey)
	if refreshToken == "" {
		m.log.Info(ctx, "session cannot be recovered", "request_id", requestID(out), "reason", ErrNoRefreshToken.Error())
		m.redirectToLogin()
		return resp, nil
	}

	access, rerr := m.refresh(ctx, refreshToken)
	if rerr != nil && abandoned(ctx, rerr) {
		// The caller gave up; the refresh token may still be good.
		m.log.Info(ctx, "session refresh abandoned", "request_id", requestID(out), "error", rerr)
		rest.Drain(resp)
		return nil, rerr
	}
	if rerr != nil {
		m.log.Warn(ctx, "session refresh failed", "request_id", requestID(out), "error", rerr)
		rest.Drain(resp)
		if err := m.store.Clear(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
			m.log.Error(ctx, "failed to clear tokens", "error", err)
		}
		m.redirectToLogin()
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, rerr)
	}

	rest.Drain(resp)
	retry.Payload.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+access)

	resp, err = m.send(retry)
	return m.HandleResponse(ctx, retry, resp, err)
}

// refresh exchanges refreshToken for a new access token and stores it.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (string, error) {
	if !m.shared {
		return m.requestRefresh(ctx, refreshToken)
	}

	// The shared call outlives any single waiter, so it must not inherit
	// their cancellation.
	ch := m.group.DoChan(refreshToken, func() (any, error) {
		rctx, cancel := m.detach(ctx)
		defer cancel()
		return m.requestRefresh(rctx, refreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			m.log.Debug(ctx, "refresh result shared")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// detach keeps ctx values but drops its cancellation. The result is bounded
// by the configured timeout instead.
func (m *Manager) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if m.timeout > 0 {
		return context.WithTimeout(ctx, m.timeout)
	}
	return context.WithCancel(ctx)
}

// abandoned reports whether a refresh failed only because the caller's
// request was cancelled.
func abandoned(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (m *Manager) requestRefresh(ctx context.Context, refreshToken string) (access string, err error) {
	defer func() { m.metrics.observeRefresh(err) }()

	req, err := rest.NewJSONRequest(ctx, http.MethodPost, rest.JoinURL(m.baseURL, common.TokenRefreshPath), refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}

	resp, err := m.tokenClient().Do(req)
	if err != nil {
		return "", err
	}

	var body refreshResponse
	if err := rest.Decode(resp, &body); err != nil {
		return "", err
	}
	if body.Access == "" {
		return "", fmt.Errorf("%w: access", ErrIncompletePair)
	}

	if err := m.store.Set(ctx, map[string]string{common.AccessTokenKey: body.Access}); err != nil {
		m.log.Error(ctx, "failed to store refreshed access token", "error", err)
	}
	m.log.Info(ctx, "access token refreshed")
	return body.Access, nil
}

func (m *Manager) redirectToLogin() {
	if strings.Contains(m.nav.CurrentRoute(), m.loginRoute) {
		return
	}
	m.metrics.redirects.Inc()
	m.nav.Navigate(m.loginRoute)
}

func (m *Manager) read(ctx context.Context, key string) string {
	v, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn(ctx, "failed to read token", "key", key, "error", err)
		return ""
	}
	return v
}

func requestID(out Outbound) string {
	return out.Payload.Header.Get(common.RequestIDHeaderName)
}
