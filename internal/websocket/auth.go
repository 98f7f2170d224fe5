package websocket

import (
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/Matches1st/Cord-Disc-Chat/internal/utils"
)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// AuthenticatorFunc resolves a handshake request to verified claims.
type AuthenticatorFunc func(r *http.Request) (*utils.Claims, error)

// JWTWebSocketAuth verifies the access token carried on the handshake.
// Browsers cannot set headers on websocket upgrades, so the query
// parameter form is the common path.
func JWTWebSocketAuth(publicKey *rsa.PublicKey) AuthenticatorFunc {
	return func(r *http.Request) (*utils.Claims, error) {
		token := getTokenFromRequest(r)
		if token == "" {
			return nil, &AuthError{Message: "missing access token"}
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return nil, &AuthError{Message: "invalid or expired token"}
		}

		return claims, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
