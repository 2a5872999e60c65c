// internal/auth/middleware.go
// Token-checking middleware. Accounts and token issuance live in the identity service.

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/imadgeboyega/kiekky-matchmaker/internal/common/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

var ErrInvalidTokenType = errors.New("invalid token type")

// TokenValidator turns a bearer token into claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

type jwtValidator struct {
	secret string
}

// NewJWTValidator validates HS256 tokens signed with secret
func NewJWTValidator(secret string) TokenValidator {
	return &jwtValidator{secret: secret}
}

func (v *jwtValidator) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, v.secret)
}

// Middleware provides authentication middleware
type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{validator: validator}
}

// Authenticate verifies the JWT token and adds the user id to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Refresh tokens are not accepted on API routes
		if claims.Type != utils.TokenTypeAccess {
			utils.ErrorResponse(w, ErrInvalidTokenType.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID())))
	})
}

// WithUserID stores the authenticated user id on ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id set by Authenticate
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the access_token query parameter for websocket upgrades.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	return r.URL.Query().Get("access_token")
}
