package mockapi

import (
	"fmt"
	"strconv"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 8 * time.Hour

// signs and validates HS256 tokens for the mock backend
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// creates a token for the user
func (i *TokenIssuer) Issue(u api.User) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("token secret not set")
	}

	now := i.now()
	expires := now.Add(i.ttl)

	claims := session.Claims{
		UserID: strconv.FormatInt(u.ID, 10),
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(u.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expires, nil
}

// validates a token and returns the claims
func (i *TokenIssuer) Validate(tokenString string) (*session.Claims, error) {
	if len(i.secret) == 0 {
		return nil, fmt.Errorf("token secret not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &session.Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*session.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
