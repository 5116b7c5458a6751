package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

type serverAuth struct {
	apiKey string
}

// handle requires "Authorization: Bearer <key>" matching the configured key.
func (sa serverAuth) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(s) != 2 || !strings.EqualFold(s[0], "Bearer") {
				handleError(w, restError{StatusCode: http.StatusUnauthorized, Error: "Missing bearer token"})
				return
			}

			if sa.apiKey == "" || subtle.ConstantTimeCompare([]byte(s[1]), []byte(sa.apiKey)) != 1 {
				log.WithField("URI", r.RequestURI).Warn("Invalid API key")
				handleError(w, restError{StatusCode: http.StatusUnauthorized, Error: "Invalid API key"})
				return
			}

			next.ServeHTTP(w, r)
		},
	)
}
