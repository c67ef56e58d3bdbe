// Package api implements the read-mostly REST API over validation
// snapshots using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// tokenQueryParam carries the token for clients that cannot set headers,
// such as a browser EventSource on /events.
const tokenQueryParam = "access_token"

// TokenAuth returns middleware that requires "Authorization: Bearer <token>".
// GET requests may pass the token as ?access_token= instead. An empty
// token disables authentication.
func TokenAuth(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok && r.Method == http.MethodGet {
				given = r.URL.Query().Get(tokenQueryParam)
			}
			if subtle.ConstantTimeCompare([]byte(given), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="adrgraph"`)
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
