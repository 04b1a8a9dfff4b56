// Package middleware holds the HTTP middleware shared by the API server and
// the Lambda entry point.
package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// Cors allows browser clients from allowedOrigin, which may be "*" or a
// comma separated list. Preflight requests are answered with 204.
func Cors(allowedOrigin string) func(http.Handler) http.Handler {
	origins := strings.Split(allowedOrigin, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		ExposedHeaders:     []string{"X-Request-Id"},
		MaxAge:             3600,
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		return handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
