package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "hashjudge/internal/platform/errors"
	phttp "hashjudge/internal/platform/net/http"
)

// Bearer requires "Authorization: Bearer <token>"; an empty token leaves routes open
func Bearer(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		if len(want) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				deny(w, r, perr.Unauthorizedf("missing bearer token"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				deny(w, r, perr.Unauthorizedf("invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func deny(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="hashjudge"`)
	phttp.WriteError(w, r, err)
}
