package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Manager signs and parses tokens for both audiences. Admin and client
// tokens share the signing secret but differ in claim shape and lifetime:
// admin claims carry {userId}, client claims carry {clientId, type:"client"}.
// The type discriminator keeps a client token from passing admin guards.
type Manager struct {
	Secret    []byte
	AdminTTL  time.Duration
	ClientTTL time.Duration
}

type AdminClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type ClientClaims struct {
	ClientID string `json:"clientId"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

func (m *Manager) NewAdminToken(userID string) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.AdminTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) NewClientToken(clientID string) (string, error) {
	now := time.Now()
	claims := ClientClaims{
		ClientID: clientID,
		Type:     "client",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ClientTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

// ParseAdminToken returns the admin user id carried by the token.
func (m *Manager) ParseAdminToken(tokenStr string) (string, error) {
	claims := &AdminClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, m.keyFunc)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// ParseClientToken returns the client id carried by the token. Tokens
// without the client discriminator are rejected even when the signature
// checks out.
func (m *Manager) ParseClientToken(tokenStr string) (string, error) {
	claims := &ClientClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, m.keyFunc)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Type != "client" || claims.ClientID == "" {
		return "", ErrInvalidToken
	}
	return claims.ClientID, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return m.Secret, nil
}
