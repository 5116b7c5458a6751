package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poundbot/guildbot/guilds"
	"github.com/poundbot/guildbot/messages"
	"github.com/poundbot/guildbot/types"
	"github.com/sirupsen/logrus"
)

type instructResponseType int

const (
	instructResponsePrivate = iota // 0 Response should be sent privately
	instructResponseChannel        // 1 Response should be sent to channel
	instructResponseNone           // 2 No response
)

type instructResponse struct {
	responseType instructResponseType
	messages     []string
}

func channelResponse(msg string) instructResponse {
	return instructResponse{responseType: instructResponseChannel, messages: []string{msg}}
}

// Registry is the guild registry as used by the command handlers.
type Registry interface {
	CreateGuild(serverID, leaderID, name string) (types.Guild, error)
	DeleteGuild(serverID, name string) error
	AddMember(serverID, memberID, leaderID string) (guilds.Membership, error)
	RemoveMember(serverID, memberID, leaderID string) (guilds.Membership, error)
	TransferLeadership(serverID, memberID, leaderID string) (guilds.Membership, error)
	ListGuilds(serverID string) ([]guilds.Listing, error)
	ListMembers(serverID, name string) ([]string, error)
	ForgetRole(serverID, roleID string) (types.Guild, bool, error)
	RemoveServer(serverID string) error
}

// moderatorCheck reports whether the author may create and delete guilds.
type moderatorCheck func() (bool, error)

type instructRequest struct {
	rqID     string
	guildID  string
	authorID string
	prefix   string
	content  string // message without the prefix or bot mention
}

func instruct(req instructRequest, gr Registry, isModerator moderatorCheck) instructResponse {
	iLog := log.WithFields(logrus.Fields{
		"ssys": "INSTRUCT",
		"rqID": req.rqID,
		"gID":  req.guildID,
		"uID":  req.authorID,
	})
	iLog.WithField("message", req.content).Trace("Instruct")

	parts := getQuotedParts(strings.TrimSpace(req.content))
	if len(parts) == 0 {
		iLog.Trace("Received instruct with no instructions")
		return instructResponse{responseType: instructResponseNone}
	}

	command := strings.ToLower(parts[0])
	parts = parts[1:]
	iLog = iLog.WithField("cmd", command)

	switch command {
	case "guild":
		return instructGuild(iLog, req, parts, gr)
	case "guildset":
		return instructGuildset(iLog, req, parts, gr, isModerator)
	case "guildlist":
		return instructGuildlist(iLog, req, parts, gr)
	case "guildhelp":
		return instructResponse{messages: []string{messages.HelpText(req.prefix)}}
	}

	// Other bots may share the prefix.
	iLog.Trace("Not a guild command")
	return instructResponse{responseType: instructResponseNone}
}

func instructGuild(iLog *logrus.Entry, req instructRequest, parts []string, gr Registry) instructResponse {
	usage := channelResponse(localize("InstructCommandGuildUsage",
		"Usage: `{{.Prefix}}guild add|remove|transfer <@member>`",
		map[string]string{"Prefix": req.prefix}))

	if len(parts) != 2 {
		return usage
	}
	memberID, ok := parseMention(parts[1])
	if !ok {
		return usage
	}
	iLog = iLog.WithField("member", memberID)

	var ms guilds.Membership
	var err error
	var done string

	switch strings.ToLower(parts[0]) {
	case "add":
		ms, err = gr.AddMember(req.guildID, memberID, req.authorID)
		done = localize("InstructCommandGuildAddResponse", "{{.Member}} added to {{.Guild}}", memberData(ms))
	case "remove":
		ms, err = gr.RemoveMember(req.guildID, memberID, req.authorID)
		if errors.Is(err, guilds.ErrNotAMember) {
			return channelResponse(localize("InstructCommandGuildRemoveNotMember",
				"This user was not in your guild in the first place :expressionless:", nil))
		}
		done = localize("InstructCommandGuildRemoveResponse", "{{.Member}} removed from {{.Guild}}", memberData(ms))
	case "transfer":
		ms, err = gr.TransferLeadership(req.guildID, memberID, req.authorID)
		if errors.Is(err, guilds.ErrNotAMember) {
			return channelResponse(localize("InstructCommandGuildTransferNotMember",
				"This user is not in your guild.", nil))
		}
		var ge *guilds.Error
		if errors.As(err, &ge) && errors.Is(err, guilds.ErrAlreadyLeader) {
			data := memberData(ms)
			data["Guild"] = escapeDiscordString(ge.Guild)
			return channelResponse(localize("InstructCommandGuildTransferAlreadyLeader",
				"{{.Member}} already leads {{.Guild}}. A member can lead only one guild.", data))
		}
		done = localize("InstructCommandGuildTransferResponse", "{{.Member}} is the new leader of {{.Guild}}.", memberData(ms))
	default:
		return usage
	}

	if err != nil {
		iLog.WithError(err).Debug("Guild command failed")
		return channelResponse(errorMessage(err, ms,
			localize("ResponseMemberNotFound", "I could not find that member.", nil)))
	}
	iLog.WithField("guild", ms.Guild.Name).Info("Guild command done")
	return channelResponse(done)
}

func instructGuildset(iLog *logrus.Entry, req instructRequest, parts []string, gr Registry, isModerator moderatorCheck) instructResponse {
	usage := channelResponse(localize("InstructCommandGuildsetUsage",
		"Usage: `{{.Prefix}}guildset add <@leader> <name>` or `{{.Prefix}}guildset delete <name>`",
		map[string]string{"Prefix": req.prefix}))

	if len(parts) < 2 {
		return usage
	}

	mod, err := isModerator()
	if err != nil {
		iLog.WithError(err).Error("Could not check moderator permissions")
		return channelResponse(errorMessage(err, guilds.Membership{}, ""))
	}
	if !mod {
		return channelResponse(errorMessage(&guilds.Error{Kind: guilds.ErrNotModerator}, guilds.Membership{}, ""))
	}

	switch strings.ToLower(parts[0]) {
	case "add":
		if len(parts) < 3 {
			return usage
		}
		leaderID, ok := parseMention(parts[1])
		if !ok {
			return usage
		}
		g, err := gr.CreateGuild(req.guildID, leaderID, strings.Join(parts[2:], " "))
		if err != nil {
			iLog.WithError(err).Debug("Create guild failed")
			return channelResponse(errorMessage(err, guilds.Membership{},
				localize("ResponseMemberNotFound", "I could not find that member.", nil)))
		}
		return channelResponse(localize("InstructCommandGuildsetAddResponse", "Created guild {{.Guild}}.",
			map[string]string{"Guild": escapeDiscordString(g.Name)}))

	case "delete":
		name := strings.Join(parts[1:], " ")
		if err := gr.DeleteGuild(req.guildID, name); err != nil {
			iLog.WithError(err).Debug("Delete guild failed")
			return channelResponse(errorMessage(err, guilds.Membership{},
				localize("InstructCommandGuildsetDeleteNotFound", ":thinking: A guild with that name never existed...", nil)))
		}
		return channelResponse(localize("InstructCommandGuildsetDeleteResponse", "Done. Bye {{.Guild}}",
			map[string]string{"Guild": escapeDiscordString(name)}))
	}
	return usage
}

func instructGuildlist(iLog *logrus.Entry, req instructRequest, parts []string, gr Registry) instructResponse {
	if len(parts) == 0 {
		listings, err := gr.ListGuilds(req.guildID)
		if err != nil {
			iLog.WithError(err).Error("Could not list guilds")
			return channelResponse(errorMessage(err, guilds.Membership{}, ""))
		}
		pages := guilds.PaginateGuilds(localize("GuildListHeader", "Guild list:", nil), listings, guilds.MessageLimit)
		if pages == nil {
			return channelResponse(localize("GuildListEmpty", "There are no guilds on this server.", nil))
		}
		return instructResponse{responseType: instructResponsePrivate, messages: pages}
	}

	name := strings.Join(parts, " ")
	notFound := localize("GuildNotFound", "This guild doesn't exist in this server.", nil)
	members, err := gr.ListMembers(req.guildID, name)
	if err != nil {
		iLog.WithError(err).Debug("Could not list members")
		return channelResponse(errorMessage(err, guilds.Membership{}, notFound))
	}
	header := localize("GuildMembersHeader", "Member list of {{.Guild}}:", map[string]string{"Guild": name})
	pages := guilds.PaginateMembers(header, members, guilds.MessageLimit)
	if pages == nil {
		return channelResponse(localize("GuildMembersEmpty", "There are no members in this guild.", nil))
	}
	return instructResponse{responseType: instructResponsePrivate, messages: pages}
}

func memberData(ms guilds.Membership) map[string]string {
	return map[string]string{
		"Member": escapeDiscordString(ms.Member.DisplayName),
		"Guild":  escapeDiscordString(ms.Guild.Name),
	}
}

// errorMessage renders a registry error for the channel. notFound is the
// reply for ErrNotFound, which depends on what was looked up.
func errorMessage(err error, ms guilds.Membership, notFound string) string {
	data := memberData(ms)
	var ge *guilds.Error
	if errors.As(err, &ge) && ge.Guild != "" {
		data["Guild"] = escapeDiscordString(ge.Guild)
	}

	switch {
	case errors.Is(err, guilds.ErrNotLeader):
		return localize("ErrorNotLeader", "You must be a leader to do that.", nil)
	case errors.Is(err, guilds.ErrNotModerator):
		return localize("ErrorNotModerator", "You must be a moderator to do that.", nil)
	case errors.Is(err, guilds.ErrAlreadyLeader):
		return localize("ErrorAlreadyLeader", "This user is already a leader for {{.Guild}}.", data)
	case errors.Is(err, guilds.ErrAlreadyExists):
		return localize("ErrorGuildExists", "A guild with that name already exists.", nil)
	case errors.Is(err, guilds.ErrAlreadyMember):
		return localize("ErrorAlreadyMember", "{{.Member}} is already in {{.Guild}}.", data)
	case errors.Is(err, guilds.ErrNotAMember):
		return localize("ErrorNotAMember", "This user is not in your guild.", nil)
	case errors.Is(err, guilds.ErrInvalidName):
		return localize("ErrorInvalidName", "Guild names must be between 1 and {{.Max}} characters.",
			map[string]string{"Max": fmt.Sprint(guilds.MaxNameLength)})
	case errors.Is(err, guilds.ErrPlatformPermission):
		return localize("ErrorNoPermission", "I don't have manage roles permission.", nil)
	case errors.Is(err, guilds.ErrNotFound) && notFound != "":
		return notFound
	}
	return localize("ErrorGeneric", "Whoops, error.", nil)
}
