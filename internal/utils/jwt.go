package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of a bearer token.
const DefaultTokenTTL = time.Hour

var (
	// ErrTokenInvalid reports a malformed token or a signature mismatch.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired reports a well-signed token past its validity window.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload of a bearer token.  The user id travels both as the
// standard subject and as the "id" claim read by existing clients.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.  Tokens are fully
// self-contained; there is no server-side revocation list, so rotating the
// secret invalidates every token issued before.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService signing with secret.  A non-positive
// ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// TTL reports the validity window of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID valid for the configured TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	iat := s.now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry of raw and returns the user id it
// carries.  Failures are ErrTokenExpired or ErrTokenInvalid.
func (s *TokenService) Verify(raw string) (string, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !tok.Valid {
		return "", ErrTokenInvalid
	}
	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return "", ErrTokenInvalid
	}
	return id, nil
}
