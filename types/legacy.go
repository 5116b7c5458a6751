package types

// LegacyGuild is a guild record in the original settings file.
type LegacyGuild struct {
	Leader string
	Role   string
}

// LegacySettings is the original settings file layout:
// server ID -> guild name -> {Leader, Role}.
type LegacySettings map[string]map[string]LegacyGuild

// Guilds converts the settings to guild records. Timestamps are set to now.
func (ls LegacySettings) Guilds() []Guild {
	var out []Guild
	for serverID, guilds := range ls {
		for name, lg := range guilds {
			out = append(out, Guild{
				ServerID:  serverID,
				Name:      name,
				LeaderID:  lg.Leader,
				RoleID:    lg.Role,
				Timestamp: NewTimestamp(),
			})
		}
	}
	return out
}
