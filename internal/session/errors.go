package session

import "errors"

var (
	// ErrRefreshFailed is returned by the Manager when a 401 could not be
	// recovered because the refresh call failed. The refresh failure is
	// wrapped alongside it.
	ErrRefreshFailed = errors.New("session refresh failed")

	// ErrNoRefreshToken marks a 401 that could not be recovered because no
	// refresh token was stored. It only appears in logs; the caller gets the
	// original 401 response.
	ErrNoRefreshToken = errors.New("no refresh token")

	ErrNoAccessToken     = errors.New("no access token")
	ErrAlreadyRetried    = errors.New("request was already retried")
	ErrBodyNotReplayable = errors.New("request body cannot be replayed")

	// ErrIncompletePair is returned when the server answers a login or
	// registration without both tokens.
	ErrIncompletePair = errors.New("token response is missing a token")
)
