package guilds

// A Member is a user on a server as seen by the platform.
type Member struct {
	ID          string
	DisplayName string
	Roles       []string
}

// HasRole reports whether the member holds roleID.
func (m Member) HasRole(roleID string) bool {
	for _, r := range m.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// Platform is the chat platform as the registry needs it. Implementations
// wrap ErrPlatformPermission when the bot lacks rights, and ErrNotFound when
// a member or role does not exist. Anything else is treated as a transport
// failure.
type Platform interface {
	CreateRole(serverID, name string) (roleID string, err error)
	DeleteRole(serverID, roleID string) error
	GrantRole(serverID, memberID, roleID string) error
	RevokeRole(serverID, memberID, roleID string) error
	Members(serverID string) ([]Member, error)
	Member(serverID, memberID string) (Member, error)
}
