package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// PublicAPIKeyMiddleware gates the anonymous report surface behind the
// shared service key, accepted as "Authorization: Bearer <key>" or an
// api_key query parameter. The compare is constant-time; the key is a
// service credential, not a password, but a short-circuit compare would
// still leak prefix lengths.
func PublicAPIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := extractPublicKey(r)
			if supplied == "" || apiKey == "" {
				http.Error(w, "API key is required", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractPublicKey(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if parts := strings.Split(bearer, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return r.URL.Query().Get("api_key")
}
