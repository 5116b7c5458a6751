package discord

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	cache "github.com/patrickmn/go-cache"
	"github.com/poundbot/guildbot/guilds"
)

// membersPageSize is the most members Discord returns per request.
const membersPageSize = 1000

// membersTTL is how long a server's member list is reused. Role changes made
// through the Platform and member events drop the entry early.
const membersTTL = time.Minute

type platformSession interface {
	GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildRoleDelete(guildID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Platform carries out guild role changes against the Discord API.
type Platform struct {
	s         platformSession
	roleColor int
	members   *cache.Cache
}

func newPlatform(s platformSession, roleColor int) *Platform {
	return &Platform{s: s, roleColor: roleColor, members: cache.New(membersTTL, 10*time.Minute)}
}

// forget drops the cached member list of a server.
func (p *Platform) forget(serverID string) {
	p.members.Delete(serverID)
}

// CreateRole creates a role without permissions, not hoisted and not
// mentionable.
func (p *Platform) CreateRole(serverID, name string) (string, error) {
	var perms int64
	off := false
	color := p.roleColor
	role, err := p.s.GuildRoleCreate(serverID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &perms,
		Hoist:       &off,
		Mentionable: &off,
	})
	if err != nil {
		return "", classify(err)
	}
	return role.ID, nil
}

func (p *Platform) DeleteRole(serverID, roleID string) error {
	defer p.forget(serverID)
	return classify(p.s.GuildRoleDelete(serverID, roleID))
}

func (p *Platform) GrantRole(serverID, memberID, roleID string) error {
	defer p.forget(serverID)
	return classify(p.s.GuildMemberRoleAdd(serverID, memberID, roleID))
}

func (p *Platform) RevokeRole(serverID, memberID, roleID string) error {
	defer p.forget(serverID)
	return classify(p.s.GuildMemberRoleRemove(serverID, memberID, roleID))
}

// Members returns every member of the server in join-list order.
func (p *Platform) Members(serverID string) ([]guilds.Member, error) {
	if cached, ok := p.members.Get(serverID); ok {
		return cached.([]guilds.Member), nil
	}
	out, err := p.fetchMembers(serverID)
	if err != nil {
		return nil, err
	}
	p.members.Set(serverID, out, cache.DefaultExpiration)
	return out, nil
}

// fetchMembers pages through the member list.
func (p *Platform) fetchMembers(serverID string) ([]guilds.Member, error) {
	var out []guilds.Member
	after := ""
	for {
		page, err := p.s.GuildMembers(serverID, after, membersPageSize)
		if err != nil {
			return nil, classify(err)
		}
		for _, m := range page {
			out = append(out, member(m))
		}
		if len(page) < membersPageSize {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (p *Platform) Member(serverID, memberID string) (guilds.Member, error) {
	m, err := p.s.GuildMember(serverID, memberID)
	if err != nil {
		return guilds.Member{}, classify(err)
	}
	return member(m), nil
}

func member(m *discordgo.Member) guilds.Member {
	return guilds.Member{ID: m.User.ID, DisplayName: displayName(m), Roles: m.Roles}
}

// displayName is the server nickname, then the global name, then the
// username.
func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// classify maps REST status codes onto the guilds error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", guilds.ErrPlatformPermission, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", guilds.ErrNotFound, err)
		}
	}
	return err
}
