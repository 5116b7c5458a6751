package discord

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid"
	"github.com/poundbot/guildbot/types"
	"github.com/sirupsen/logrus"
)

type RunnerConfig struct {
	Token          string
	Prefix         string
	ModeratorRoles []string
	RoleColor      string
}

type command struct {
	rqID        string
	guildID     string
	channelID   string
	authorID    string
	authorRoles []string
	content     string
}

// Runner owns the Discord session. Commands are queued by the message
// handler and run one at a time by the runner loop while connected.
type Runner struct {
	session  *discordgo.Session
	platform *Platform
	gr       Registry
	prefix   string
	modRoles []string
	status   chan bool
	commands chan command
	shutdown atomic.Bool
}

// NewRunner prepares a session without connecting it.
func NewRunner(rc RunnerConfig) (*Runner, error) {
	session, err := discordgo.New("Bot " + rc.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	// Discord leaves roles with color 0 uncolored.
	color := 0
	if rc.RoleColor != "" {
		color = types.RoleColor(rc.RoleColor).Int()
	}

	return &Runner{
		session:  session,
		platform: newPlatform(session, color),
		prefix:   rc.Prefix,
		modRoles: rc.ModeratorRoles,
		status:   make(chan bool),
		commands: make(chan command),
	}, nil
}

// Platform is the role adapter backed by the runner's session.
func (r *Runner) Platform() *Platform {
	return r.platform
}

// SetRegistry sets the registry commands run against. It must be called
// before Start.
func (r *Runner) SetRegistry(gr Registry) {
	r.gr = gr
}

// Start registers the handlers and connects, retrying until it succeeds.
func (r *Runner) Start() error {
	if r.gr == nil {
		return errors.New("no guild registry set")
	}
	r.session.AddHandler(r.messageCreate)
	r.session.AddHandler(r.ready)
	r.session.AddHandler(disconnected(r.status))
	r.session.AddHandler(r.resumed)
	r.session.AddHandler(newGuildRoleDelete(r.gr))
	r.session.AddHandler(newGuildDelete(r.gr))
	r.session.AddHandler(newGuildMemberAdd(r.platform))
	r.session.AddHandler(newGuildMemberUpdate(r.platform))
	r.session.AddHandler(newGuildMemberRemove(r.platform))

	go r.runner()

	connect(r.session)
	return nil
}

// Stop stops the runner
func (r *Runner) Stop() {
	log.WithField("ssys", "RUNNER").Info("Disconnecting...")
	r.shutdown.Store(true)
	r.session.Close()
}

func (r *Runner) runner() {
	rLog := log.WithField("ssys", "RUNNER")
	defer rLog.Warn("Runner exited")

	connectedState := false

	for {
		if connectedState {
			rLog.Info("Waiting for commands.")
		Reading:
			for {
				select {
				case connectedState = <-r.status:
					if !connectedState {
						rLog.Warn("Received disconnected message")
						if r.shutdown.Load() {
							return
						}
						break Reading
					}

					rLog.Info("Received unexpected connected message")

				case c := <-r.commands:
					r.execute(c)
				}
			}
		}
	Connecting:
		for {
			rLog.Info("Waiting for connected state...")
			connectedState = <-r.status
			if connectedState {
				rLog.WithField("ssys", "CONN").Info("Received connected message")
				break Connecting
			}
			rLog.WithField("ssys", "CONN").Info("Received disconnected message")
			if r.shutdown.Load() {
				return
			}
		}
	}
}

func (r *Runner) execute(c command) {
	cLog := log.WithFields(logrus.Fields{"ssys": "RUNNER", "rqID": c.rqID, "gID": c.guildID, "uID": c.authorID})

	resp := instruct(
		instructRequest{rqID: c.rqID, guildID: c.guildID, authorID: c.authorID, prefix: r.prefix, content: c.content},
		r.gr,
		func() (bool, error) { return r.isModerator(c.guildID, c.authorID, c.authorRoles) },
	)

	var err error
	switch resp.responseType {
	case instructResponsePrivate:
		for _, msg := range resp.messages {
			if err = r.sendPrivateMessage(c.authorID, msg); err != nil {
				break
			}
		}
	case instructResponseChannel:
		for _, msg := range resp.messages {
			if err = r.sendChannelMessage(r.session.State.User.ID, c.channelID, msg); err != nil {
				break
			}
		}
	}
	if err != nil {
		cLog.WithError(err).Error("Could not send response")
	}
}

// This function will be called (due to AddHandler above) every time a new
// message is created on any channel that the authenticated bot has access to.
func (r *Runner) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	// Guild commands need a server.
	if m.GuildID == "" {
		return
	}

	content, ok := commandContent(m.Content, r.prefix, s.State.User.ID)
	if !ok {
		return
	}

	rqID, err := uuid.NewV4()
	if err != nil {
		log.WithError(err).WithField("gID", m.GuildID).Error("error creating uuid")
		return
	}

	c := command{
		rqID:      rqID.String(),
		guildID:   m.GuildID,
		channelID: m.ChannelID,
		authorID:  m.Author.ID,
		content:   content,
	}
	if m.Member != nil {
		c.authorRoles = m.Member.Roles
	}
	r.commands <- c
}

func (r *Runner) resumed(s *discordgo.Session, event *discordgo.Resumed) {
	log.WithField("ssys", "CONN").Info("Resumed connection")
	r.status <- true
}

// This function will be called (due to AddHandler above) when the bot receives
// the "ready" event from Discord.
func (r *Runner) ready(s *discordgo.Session, event *discordgo.Ready) {
	log.WithFields(logrus.Fields{"ssys": "CONN", "guilds": len(event.Guilds)}).Info("Connection Ready")

	err := s.UpdateGameStatus(0, localize("DiscordStatus", "{{.Prefix}}guildhelp",
		map[string]string{"Prefix": r.prefix}))
	if err != nil {
		log.WithField("ssys", "CONN").WithError(err).Warn("Could not set status")
	}
	r.status <- true
}

// disconnected is a handler for the Disconnect discord event
func disconnected(status chan<- bool) func(s *discordgo.Session, event *discordgo.Disconnect) {
	return func(s *discordgo.Session, event *discordgo.Disconnect) {
		log.WithField("ssys", "CONN").Warn("Disconnected")
		status <- false
	}
}

type sessionOpener interface {
	Open() error
}

func connect(sess sessionOpener) {
	cLog := log.WithField("ssys", "CONN")
	cLog.Info("Connecting")
	for {
		err := sess.Open()
		if err != nil {
			cLog.WithError(err).Warn("Error connecting")
			cLog.Warn("Attempting Reconnect...")
			time.Sleep(1 * time.Second)
			continue
		}

		cLog.Info("Connected")
		return
	}
}
