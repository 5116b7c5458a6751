package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/poundbot/guildbot/types"
	"github.com/sirupsen/logrus"
)

type roleForgetter interface {
	ForgetRole(serverID, roleID string) (types.Guild, bool, error)
}

func newGuildRoleDelete(rf roleForgetter) func(*discordgo.Session, *discordgo.GuildRoleDelete) {
	return func(s *discordgo.Session, grd *discordgo.GuildRoleDelete) {
		guildRoleDelete(rf, grd.GuildID, grd.RoleID)
	}
}

// guildRoleDelete drops a guild whose role was deleted outside the bot.
func guildRoleDelete(rf roleForgetter, gID, rID string) {
	grdLog := log.WithFields(logrus.Fields{"ssys": "guildRoleDelete", "gID": gID, "rID": rID})
	g, found, err := rf.ForgetRole(gID, rID)
	if err != nil {
		grdLog.WithError(err).Error("Storage error forgetting guild")
		return
	}
	if found {
		grdLog.WithField("guild", g.Name).Info("Role deleted, guild removed")
	}
}

type serverRemover interface {
	RemoveServer(serverID string) error
}

func newGuildDelete(sr serverRemover) func(*discordgo.Session, *discordgo.GuildDelete) {
	return func(s *discordgo.Session, gd *discordgo.GuildDelete) {
		if gd.Guild == nil {
			return
		}
		guildDelete(sr, gd.Guild.ID, gd.Guild.Unavailable)
	}
}

// guildDelete forgets a server the bot was removed from. Outages also send
// the event, flagged unavailable, and are ignored.
func guildDelete(sr serverRemover, gID string, unavailable bool) {
	gdLog := log.WithFields(logrus.Fields{"ssys": "guildDelete", "gID": gID})
	if unavailable {
		gdLog.Warn("Server unavailable")
		return
	}
	if err := sr.RemoveServer(gID); err != nil {
		gdLog.WithError(err).Error("Storage error removing server")
		return
	}
	gdLog.Info("Left server, guilds removed")
}

// Member events make the cached member list stale.
func newGuildMemberAdd(p *Platform) func(*discordgo.Session, *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, gma *discordgo.GuildMemberAdd) {
		p.forget(gma.GuildID)
	}
}

func newGuildMemberUpdate(p *Platform) func(*discordgo.Session, *discordgo.GuildMemberUpdate) {
	return func(s *discordgo.Session, gmu *discordgo.GuildMemberUpdate) {
		p.forget(gmu.GuildID)
	}
}

func newGuildMemberRemove(p *Platform) func(*discordgo.Session, *discordgo.GuildMemberRemove) {
	return func(s *discordgo.Session, gmr *discordgo.GuildMemberRemove) {
		p.forget(gmr.GuildID)
	}
}
