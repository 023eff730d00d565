package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"eventdesk/internal/httputil"
)

// Recovery turns a handler panic into a 500 problem response. http.ErrAbortHandler
// is re-raised so net/http can abort the connection quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				userID, _ := httputil.UserIDFromContext(r.Context())
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", userID,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
