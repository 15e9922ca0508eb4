package middleware

import (
	"context"
	"net/http"
)

// PrincipalHeader carries the authenticated principal set by the API
// gateway. Authentication itself happens upstream.
const PrincipalHeader = "X-Principal-ID"

type contextKey string

const principalKey contextKey = "principal"

// Principal injects the principal header into the request context.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(PrincipalHeader); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), principalKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalID returns the principal from the context, or empty when the
// request was anonymous.
func PrincipalID(ctx context.Context) string {
	id, _ := ctx.Value(principalKey).(string)
	return id
}
