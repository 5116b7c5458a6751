package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

type permsGetter struct {
	perms int64
	err   error
}

func (p permsGetter) UserChannelPermissions(userID, channelID string) (int64, error) {
	return p.perms, p.err
}

func Test_canSendToChannel(t *testing.T) {
	tests := []struct {
		name    string
		pg      permsGetter
		want    bool
		wantErr bool
	}{
		{name: "can send", pg: permsGetter{perms: discordgo.PermissionSendMessages | discordgo.PermissionViewChannel}, want: true},
		{name: "cannot send", pg: permsGetter{perms: discordgo.PermissionViewChannel}, want: false},
		{name: "error", pg: permsGetter{err: errors.New("no channel")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := canSendToChannel(tt.pg, "bot", "c1")
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_moderates(t *testing.T) {
	guild := &discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Name: "@everyone"},
			{ID: "admin", Name: "Admins", Permissions: discordgo.PermissionAdministrator},
			{ID: "roles", Name: "Role Managers", Permissions: discordgo.PermissionManageRoles},
			{ID: "mods", Name: "Mods"},
			{ID: "plain", Name: "Plain"},
		},
	}
	tests := []struct {
		name     string
		userID   string
		roles    []string
		modRoles []string
		want     bool
	}{
		{name: "owner", userID: "owner", want: true},
		{name: "administrator", userID: "u", roles: []string{"admin"}, want: true},
		{name: "manage roles", userID: "u", roles: []string{"plain", "roles"}, want: true},
		{name: "configured by name", userID: "u", roles: []string{"mods"}, modRoles: []string{"MODS"}, want: true},
		{name: "configured by id", userID: "u", roles: []string{"mods"}, modRoles: []string{"mods"}, want: true},
		{name: "configured not held", userID: "u", roles: []string{"plain"}, modRoles: []string{"Mods"}, want: false},
		{name: "plain member", userID: "u", roles: []string{"plain"}, want: false},
		{name: "no roles", userID: "u", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, moderates(guild, tt.userID, tt.roles, tt.modRoles))
		})
	}
}

func Test_moderates_EveryoneRole(t *testing.T) {
	guild := &discordgo.Guild{
		ID:    "g1",
		Roles: []*discordgo.Role{{ID: "g1", Name: "@everyone", Permissions: discordgo.PermissionManageRoles}},
	}
	assert.True(t, moderates(guild, "u", nil, nil))
}
