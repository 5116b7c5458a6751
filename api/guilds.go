package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/poundbot/guildbot/guilds"
	"github.com/poundbot/guildbot/types"
)

type guildLister interface {
	Guilds(serverID string) []types.Guild
	ListGuilds(serverID string) ([]guilds.Listing, error)
	ListMembers(serverID, name string) ([]string, error)
}

type guildResponse struct {
	Name      string    `json:"name"`
	LeaderID  string    `json:"leader_id"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	Members   []string  `json:"members"`
}

type membersResponse struct {
	Guild   string   `json:"guild"`
	Members []string `json:"members"`
}

type guildsHandler struct {
	gl guildLister
}

func initGuilds(api *mux.Router, path string, gl guildLister) {
	gh := guildsHandler{gl: gl}

	api.HandleFunc(path, gh.list).
		Methods(http.MethodGet)

	api.HandleFunc(path+"/{name}/members", gh.members).
		Methods(http.MethodGet)
}

// list returns every guild of the server with its members.
func (gh guildsHandler) list(w http.ResponseWriter, r *http.Request) {
	rc := getRequestContext(r)
	lLog := logWithRequest(rc)

	listings, err := gh.gl.ListGuilds(rc.serverID)
	if err != nil {
		lLog.WithError(err).Error("Could not list guilds")
		handleRegistryError(w, err)
		return
	}

	members := make(map[string][]string, len(listings))
	for _, l := range listings {
		members[l.Name] = l.Members
	}

	out := []guildResponse{}
	for _, g := range gh.gl.Guilds(rc.serverID) {
		gm, ok := members[g.Name]
		if !ok {
			// created after the listing was taken
			continue
		}
		if gm == nil {
			gm = []string{}
		}
		out = append(out, guildResponse{
			Name:      g.Name,
			LeaderID:  g.LeaderID,
			RoleID:    g.RoleID,
			CreatedAt: g.CreatedAt,
			Members:   gm,
		})
	}

	lLog.WithField("count", len(out)).Trace("Listing guilds")
	writeJSON(w, out)
}

func (gh guildsHandler) members(w http.ResponseWriter, r *http.Request) {
	rc := getRequestContext(r)
	name := mux.Vars(r)["name"]
	mLog := logWithRequest(rc).WithField("guild", name)

	members, err := gh.gl.ListMembers(rc.serverID, name)
	if err != nil {
		mLog.WithError(err).Info("Could not list members")
		handleRegistryError(w, err)
		return
	}
	if members == nil {
		members = []string{}
	}
	writeJSON(w, membersResponse{Guild: name, Members: members})
}

func handleRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, guilds.ErrNotFound):
		handleError(w, restError{StatusCode: http.StatusNotFound, Error: "Guild not found"})
	case errors.Is(err, guilds.ErrPlatformPermission), errors.Is(err, guilds.ErrPlatformTransport):
		handleError(w, restError{StatusCode: http.StatusBadGateway, Error: "Could not read members from Discord"})
	default:
		handleError(w, restError{StatusCode: http.StatusInternalServerError, Error: "Internal error"})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Could not encode response")
	}
}
