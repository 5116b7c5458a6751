package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

type contextKey int

const (
	contextKeyRequestUUID contextKey = iota
)

type requestContext struct {
	uri         string
	requestUUID string
	serverID    string
}

func getRequestContext(r *http.Request) requestContext {
	rc := requestContext{uri: r.RequestURI, serverID: mux.Vars(r)["server_id"]}
	rc.requestUUID, _ = r.Context().Value(contextKeyRequestUUID).(string)
	return rc
}

func withRequestUUID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestUUID, id)
}
