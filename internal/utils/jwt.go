package utils // package utils provides the session token, cookie and password helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"

	"github.com/codeypas/portfolio-final/internal/model"
)

// ErrInvalidToken covers every reason a token is rejected: bad signature,
// structural corruption, expiry, unknown role.  Callers never get a partial
// result alongside it.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of a session token.  The subject id travels in the
// standard "sub" claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AccessToken is a signed session token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenIssuer signs and verifies HS256 session tokens.  The secret and TTL
// are fixed at construction; rotating the secret invalidates every
// outstanding token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *t
	cp.now = now
	return &cp
}

// TTL is the lifetime of every issued token.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue builds and signs a token for the given subject.  The expiry is
// now + TTL; a token is valid strictly before that instant.
func (t *TokenIssuer) Issue(subjectID string, role model.Role) (AccessToken, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return AccessToken{}, err
	}
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	// NumericDate drops sub-second precision; report what the token carries.
	return AccessToken{Token: signed, Exp: claims.ExpiresAt.Time}, nil
}

// Verify checks signature, algorithm and expiry and returns the identity the
// token proves.
func (t *TokenIssuer) Verify(raw string) (model.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return model.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return model.Identity{SubjectID: claims.Subject, Role: role}, nil
}
