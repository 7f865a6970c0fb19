package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/authz"
	"github.com/stanstork/contact-api/internal/models"
)

// AuthHandler verifies bearer tokens issued by the identity provider. It never
// issues tokens itself.
type AuthHandler struct {
	jwtSecret string
	logger    zerolog.Logger
}

func NewAuthHandler(jwtSecret string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("handler", "auth").Logger(),
	}
}

func (h *AuthHandler) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			h.logger.Debug().Err(err).Msg("rejected bearer token")
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !claims.VerifyExpiresAt(time.Now().Unix(), true) {
			http.Error(w, "Token expired", http.StatusUnauthorized)
			return
		}

		userID, _ := claims["sub"].(string)
		if _, err := uuid.Parse(userID); err != nil {
			http.Error(w, "Invalid subject claim", http.StatusUnauthorized)
			return
		}
		rawRole, ok := claims["role"].(string)
		if !ok || rawRole == "" {
			http.Error(w, "Missing role claim", http.StatusUnauthorized)
			return
		}

		ctx := authz.WithIdentity(r.Context(), userID, models.ParseRole(rawRole))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
