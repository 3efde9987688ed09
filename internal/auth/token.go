package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the verified payload of a signed token.
type Claims struct {
	Subject   string
	Roles     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenProvider issues and verifies compact HS256 tokens signed with a single
// process-wide secret. The key and lifetime are fixed at startup and shared
// read-only across requests.
type TokenProvider struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenProvider(secret string, lifetime time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Lifetime returns the configured token validity window.
func (p *TokenProvider) Lifetime() time.Duration {
	return p.lifetime
}

// Issue signs a token for the given subject and comma-joined role string.
// Expiry is always issuance time plus the configured lifetime.
func (p *TokenProvider) Issue(subject string, roles string) (string, error) {
	now := p.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(p.lifetime).Unix(),
	})
	return token.SignedString(p.secret)
}

// DecodeAndVerify parses and verifies a token: structure first, then
// signature, then expiry. It never panics; every failure maps to one of the
// token error sentinels.
func (p *TokenProvider) DecodeAndVerify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		default:
			return Claims{}, ErrTokenMalformed
		}
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenMalformed
	}

	claims := Claims{}
	claims.Subject, _ = claimsMap["sub"].(string)
	claims.Roles, _ = claimsMap["roles"].(string)
	if claims.Subject == "" {
		return Claims{}, ErrTokenMalformed
	}

	if iat, err := claimsMap.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// Validate collapses every verification failure to false. Empty input,
// garbage input, a token signed with a different key and an expired token
// are indistinguishable at this layer.
func (p *TokenProvider) Validate(tokenString string) bool {
	_, err := p.DecodeAndVerify(tokenString)
	return err == nil
}

// Subject returns the subject of a verified token. Invalid tokens fail
// exactly as DecodeAndVerify does.
func (p *TokenProvider) Subject(tokenString string) (string, error) {
	claims, err := p.DecodeAndVerify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
