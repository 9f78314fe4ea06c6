package web

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and verifies play tokens. A play token is handed
// out when a game session is created and ties a later score submission
// back to the server-side session that earned it, so the leaderboard
// can trust the server's score over whatever the client claims.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer signing with the given secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed play token for a game session.
func (t *TokenIssuer) Issue(gameID, handle string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  "hackercrush",
		"sub":  handle,
		"game": gameID,
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign play token: %w", err)
	}

	return signed, nil
}

// Verify checks a play token signature and expiry and returns the game
// ID and handle it was issued for.
func (t *TokenIssuer) Verify(tokenString string) (gameID, handle string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid play token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid play token claims")
	}

	gameID, _ = claims["game"].(string)
	if gameID == "" {
		return "", "", fmt.Errorf("play token missing game claim")
	}
	handle, _ = claims["sub"].(string)

	return gameID, handle, nil
}
