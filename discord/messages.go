package discord

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

type channelPermissionsGetter interface {
	UserChannelPermissions(userID, channelID string) (apermissions int64, err error)
}

func (r *Runner) sendChannelMessage(userID, channelID, message string) error {
	canSend, err := canSendToChannel(r.session.State, userID, channelID)
	if err != nil {
		return err
	}

	if !canSend {
		return errors.New("cannot send to channel")
	}

	_, err = r.session.ChannelMessageSend(channelID, message)
	return err
}

func (r *Runner) sendPrivateMessage(snowflake, message string) error {
	channel, err := r.session.UserChannelCreate(snowflake)

	if err != nil {
		log.WithError(err).WithField("uID", snowflake).Error("Error creating user channel")
		return err
	}

	_, err = r.session.ChannelMessageSend(
		channel.ID,
		message,
	)

	return err
}

func canSendToChannel(pg channelPermissionsGetter, userID, channelID string) (bool, error) {
	perms, err := pg.UserChannelPermissions(userID, channelID)

	if err != nil {
		log.WithError(err).WithField("cID", channelID).Trace("canSendToChannel: error reading permissions for channel")
		return false, err
	}

	if discordgo.PermissionSendMessages&^perms != 0 {
		log.WithField("cID", channelID).Trace("canSendToChannel: cannot send to channel")
		return false, nil
	}
	return true, nil
}

func (r *Runner) isModerator(guildID, userID string, roles []string) (bool, error) {
	guild, err := r.session.State.Guild(guildID)
	if err != nil {
		guild, err = r.session.Guild(guildID)
		if err != nil {
			return false, classify(err)
		}
	}
	return moderates(guild, userID, roles, r.modRoles), nil
}

// moderates reports whether a member owns the server, holds a role with
// the Administrator or Manage Roles permission, or holds one of modRoles.
// modRoles match role IDs or, ignoring case, role names.
func moderates(guild *discordgo.Guild, userID string, roles, modRoles []string) bool {
	if guild.OwnerID == userID {
		return true
	}

	// The @everyone role shares the server's ID and applies to all members.
	held := append([]string{guild.ID}, roles...)
	for _, role := range guild.Roles {
		if !contains(held, role.ID) {
			continue
		}
		if role.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageRoles) != 0 {
			return true
		}
		for _, mr := range modRoles {
			if mr == role.ID || strings.EqualFold(mr, role.Name) {
				return true
			}
		}
	}
	return false
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
