package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"eventdesk/internal/auth"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
	"eventdesk/internal/httputil"
)

// publicPaths skip authentication entirely
var publicPaths = map[string]bool{
	"/health": true,
}

// AuthMiddleware verifies the bearer token, upserts the user row and stores the
// user ID in the request context. OPTIONS requests pass through for CORS pre-flight.
func AuthMiddleware(verifier auth.JWTVerifier, users repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	anonymous := false
	if opt, ok := verifier.(auth.TokenOptional); ok {
		anonymous = opt.AllowsAnonymous()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, found := bearerToken(r)
			if !found && !anonymous {
				httputil.RespondError(w, http.StatusUnauthorized, "Token não fornecido")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Token inválido")
				return
			}

			user := &models.User{
				ID:    claims.GetUserID(),
				Email: claims.Email,
				Name:  claims.DisplayName(),
			}
			if err := users.Upsert(r.Context(), user); err != nil {
				logger.Error("user upsert failed", "user_id", user.ID, "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, user.ID))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
