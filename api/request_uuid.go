package api

import (
	"net/http"

	"github.com/gofrs/uuid"
)

type requestUUID struct{}

// handle tags each request with the caller's X-Request-ID, or a new one.
func (ru requestUUID) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			requestUUID := r.Header.Get("X-Request-ID")
			if requestUUID == "" {
				rUUID, err := uuid.NewV4()
				if err != nil {
					http.Error(w, "could not create UUID", http.StatusInternalServerError)
					return
				}
				requestUUID = rUUID.String()
			}

			r = r.WithContext(withRequestUUID(r.Context(), requestUUID))
			w.Header().Set("X-Request-ID", requestUUID)

			next.ServeHTTP(w, r)
		},
	)
}
