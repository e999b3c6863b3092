package middleware

import (
	"net/http"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET, POST, OPTIONS"
)

func isOriginAllowed(allowedOrigins []string, origin string) (string, bool) {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" {
			return "*", true
		}
		if origin != "" && origin == allowedOrigin {
			return origin, true
		}
	}
	return "", false
}

// Cors responde ao preflight e adiciona os cabeçalhos CORS.
// Com "*" na lista qualquer origem é aceita.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowOrigin, ok := isOriginAllowed(allowedOrigins, r.Header.Get("Origin")); ok {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", "86400") // Cache do CORS por 24 horas
				if allowOrigin != "*" {
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
