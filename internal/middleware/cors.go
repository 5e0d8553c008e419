package middleware

import (
	"net/http"
	"strconv"
)

const corsMaxAge = 86400 // 24 hours

// CORS allows cross-origin requests from the configured frontend origin.
// In development every origin is allowed; in production only the known
// frontend and same-host requests pass.
func CORS(frontendURL string, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Requests with no Origin (curl, same-origin navigations) pass through
			if origin != "" {
				allowed := isDev || origin == frontendURL ||
					origin == "http://localhost:3000" || origin == "http://localhost:3001"

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
					w.Header().Add("Vary", "Origin")
				}

				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
