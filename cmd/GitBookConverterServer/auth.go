package main

import (
	"crypto/subtle"
	"net/http"
)

// AuthMiddleware protects endpoints of a privately hosted converter
type AuthMiddleware struct {
	config *AuthConfig
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(config *AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{config: config}
}

// IsEnabled returns true if authentication is configured and enabled
func (a *AuthMiddleware) IsEnabled() bool {
	return a.config != nil && a.config.Enabled
}

// WrapFunc wraps an http.HandlerFunc with authentication checks
func (a *AuthMiddleware) WrapFunc(next http.HandlerFunc) http.HandlerFunc {
	if !a.IsEnabled() {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if a.authenticate(r) {
			next(w, r)
			return
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="GitBookConverter"`)
		writeJSONError(w, "unauthorized", http.StatusUnauthorized)
	}
}

// authenticate accepts an API key from the X-API-Key header or the api_key
// query parameter, then falls back to Basic auth
func (a *AuthMiddleware) authenticate(r *http.Request) bool {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return a.validateAPIKey(apiKey)
	}
	// Query keys end up in access logs; the header is preferred.
	if apiKey := r.URL.Query().Get("api_key"); apiKey != "" {
		return a.validateAPIKey(apiKey)
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}
	return a.validateBasicAuth(username, password)
}

func (a *AuthMiddleware) validateAPIKey(key string) bool {
	for _, validKey := range a.config.APIKeys {
		if secureCompare(key, validKey) {
			return true
		}
	}
	return false
}

func (a *AuthMiddleware) validateBasicAuth(username, password string) bool {
	if a.config.Username == "" {
		return false
	}

	usernameMatch := secureCompare(username, a.config.Username)
	passwordMatch := secureCompare(password, a.config.Password)
	return usernameMatch && passwordMatch
}

// secureCompare performs a constant-time comparison
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
