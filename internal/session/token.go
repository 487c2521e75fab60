package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parceltrack/console/internal/common"
)

var unverified = jwt.NewParser()

// expiresAtSeconds reads the exp claim from the middle segment of a
// JWT-shaped token. The header and signature are never looked at, so any
// alg is accepted, and fractional seconds are kept.
func expiresAtSeconds(token string) (float64, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: want 3 segments, got %d", common.ErrInvalidToken, len(parts))
	}

	payload, err := unverified.DecodeSegment(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return exp, nil
}

// ExpiresAt decodes the exp claim of a JWT-shaped token without verifying
// its signature. The result is advisory; only the server decides whether a
// token is accepted.
func ExpiresAt(token string) (time.Time, error) {
	exp, err := expiresAtSeconds(token)
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(exp)
	return time.Unix(int64(sec), int64(frac*1e9)), nil
}

// ValidAt reports whether token is decodable and exp, in milliseconds, is
// strictly after now.
func ValidAt(token string, now time.Time) bool {
	exp, err := expiresAtSeconds(token)
	if err != nil {
		return false
	}
	return exp*1000 > float64(now.UnixMilli())
}
