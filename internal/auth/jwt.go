package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) TTL() time.Duration { return s.ttl }

// Sign returns a token for userID with a fresh JWT id and its expiry.
func (s *Signer) Sign(userID string, roles []string) (token string, c Claims, expires time.Time, err error) {
	now := s.now()
	expires = now.Add(s.ttl)
	c = Claims{Subject: userID, JWTID: uuid.NewString(), Roles: roles}
	claims := jwt.MapClaims{
		"sub":   userID,
		"jti":   c.JWTID,
		"roles": roles,
		"exp":   expires.Unix(),
		"iat":   now.Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	return token, c, expires, err
}

func (s *Signer) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	sub, _ := mapc["sub"].(string)
	jti, _ := mapc["jti"].(string)
	var roles []string
	if arr, ok := mapc["roles"].([]interface{}); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				roles = append(roles, s)
			}
		}
	}
	return Claims{Subject: sub, JWTID: jti, Roles: roles}, nil
}
