package types

import "sort"

// A Guild is a named, role-backed group on a Discord server.
type Guild struct {
	ServerID  string `bson:"server_id" json:"server_id"`
	Name      string `bson:"name" json:"name"`
	LeaderID  string `bson:"leader_id" json:"leader_id"`
	RoleID    string `bson:"role_id" json:"role_id"`
	Timestamp `bson:",inline"`
}

// ServerGuilds maps guild names to guilds for a single server.
type ServerGuilds map[string]Guild

// Names returns the guild names in ascending order.
func (sg ServerGuilds) Names() []string {
	names := make([]string, 0, len(sg))
	for name := range sg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LedBy finds the guild whose leader is leaderID.
func (sg ServerGuilds) LedBy(leaderID string) (Guild, bool) {
	for _, name := range sg.Names() {
		if sg[name].LeaderID == leaderID {
			return sg[name], true
		}
	}
	return Guild{}, false
}

// ByRole finds the guild backed by roleID.
func (sg ServerGuilds) ByRole(roleID string) (Guild, bool) {
	for _, g := range sg {
		if g.RoleID == roleID {
			return g, true
		}
	}
	return Guild{}, false
}

// A Registry maps server IDs to their guilds.
type Registry map[string]ServerGuilds

// NewRegistry builds a Registry from a flat list of guilds.
func NewRegistry(guilds []Guild) Registry {
	r := Registry{}
	for _, g := range guilds {
		r.Set(g)
	}
	return r
}

// Set adds or replaces g.
func (r Registry) Set(g Guild) {
	sg, ok := r[g.ServerID]
	if !ok {
		sg = ServerGuilds{}
		r[g.ServerID] = sg
	}
	sg[g.Name] = g
}

// Delete removes the named guild, dropping the server entry once empty.
func (r Registry) Delete(serverID, name string) {
	sg, ok := r[serverID]
	if !ok {
		return
	}
	delete(sg, name)
	if len(sg) == 0 {
		delete(r, serverID)
	}
}
