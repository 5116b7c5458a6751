package api

import (
	"encoding/json"
	"net/http"
)

type restError struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
}

func handleError(w http.ResponseWriter, re restError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(re.StatusCode)
	if err := json.NewEncoder(w).Encode(re); err != nil {
		log.WithError(err).Error("Could not encode error")
	}
}
