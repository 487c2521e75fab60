// Package common contains shared constants and sentinel errors used across
// the parceltrack console components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token in the Authorization header.
const BearerScheme = "Bearer"

// RequestIDHeaderName correlates a request with client and server logs.
const RequestIDHeaderName = "X-Request-ID"

// Storage keys of the credential pair.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Client-side routes used for forced navigation.
const (
	LoginRoute   = "/login"
	HomeRoute    = "/"
	DefaultRoute = "/dashboard"
)

// API endpoints, relative to the configured base URL.
const (
	TokenPath        = "/token/"
	TokenRefreshPath = "/token/refresh/"
	RegisterPath     = "/accounts/register/"
	MePath           = "/accounts/me/"
)
