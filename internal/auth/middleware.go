package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/datanest/internal/apperror"
)

// ErrorWriter sends err as the HTTP response.
type ErrorWriter func(w http.ResponseWriter, err error)

// RequireToken rejects requests without a valid bearer token. The rejection is
// an apperror.Unauthorized handed to writeErr, which renders it as 401.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns one that wraps it. chi
// applies them in order: req → M1 → M2 → Handler → M2 → M1 → resp.
// Returning without calling next stops the chain.
func RequireToken(tokens *TokenService, logger *slog.Logger, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, writeErr, "missing bearer token")
				return
			}

			if _, err := tokens.Validate(raw); err != nil {
				logger.Warn("rejected api token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				unauthorized(w, writeErr, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, writeErr ErrorWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="datanest"`)
	writeErr(w, apperror.Unauthorized(message))
}
