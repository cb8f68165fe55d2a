// Package discord provides the Discord host: prefix commands in, embeds and
// interactive components out.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"tunebot/pkg/commands"
	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
	"tunebot/pkg/ui/paginator"
	"tunebot/pkg/ui/picker"
)

const (
	commandTimeout = 30 * time.Second
	replyTimeout   = 5 * time.Second
)

// Channel implements the Discord host.
type Channel struct {
	log       *logger.Logger
	config    config.DiscordConfig
	session   *discordgo.Session
	api       api
	transport ui.Transport
	commands  *commands.Registry
	router    *collector.Router
	paginator *paginator.Paginator
	picker    *picker.Picker
	theme     ui.Theme
}

// NewSession creates an unopened discordgo session. Events are dispatched
// synchronously so component interactions reach their session inbox in
// gateway order; slow work is moved off the event goroutine.
func NewSession(cfg config.DiscordConfig) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.SyncEvents = true
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
	return session, nil
}

// NewChannel creates a new Discord channel.
func NewChannel(
	log *logger.Logger,
	cfg config.DiscordConfig,
	session *discordgo.Session,
	transport ui.Transport,
	registry *commands.Registry,
	router *collector.Router,
	pg *paginator.Paginator,
	pk *picker.Picker,
	theme ui.Theme,
) *Channel {
	return &Channel{
		log:       log.Named("discord"),
		config:    cfg,
		session:   session,
		api:       session,
		transport: transport,
		commands:  registry,
		router:    router,
		paginator: pg,
		picker:    pk,
		theme:     theme,
	}
}

// ID returns the channel identifier.
func (c *Channel) ID() string {
	return "discord"
}

// Start registers handlers and opens the gateway connection.
func (c *Channel) Start(ctx context.Context) error {
	c.log.Info("Starting Discord channel")

	c.session.AddHandler(c.handleMessage)
	c.session.AddHandler(c.handleInteraction)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("opening discord connection: %w", err)
	}

	if u := c.session.State.User; u != nil {
		c.log.Info("Discord bot connected",
			zap.String("username", u.Username),
			zap.String("user_id", u.ID),
			zap.String("prefix", c.commands.Prefix()))
	}
	return nil
}

// Stop closes the gateway connection.
func (c *Channel) Stop(ctx context.Context) error {
	c.log.Info("Stopping Discord channel")
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("closing discord session: %w", err)
	}
	return nil
}

// handleMessage runs prefix commands. Command work happens off the event
// goroutine.
func (c *Channel) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if c.config.GuildID != "" && m.GuildID != c.config.GuildID {
		return
	}
	if !c.commands.IsCommand(m.Content) {
		return
	}
	if !c.config.IsAllowed(m.Author.ID) {
		c.log.Warn("Unauthorized user",
			zap.String("user_id", m.Author.ID),
			zap.String("username", m.Author.Username))
		return
	}

	name, args := c.commands.Parse(m.Content)
	req := commands.CommandRequest{
		Channel:  c.ID(),
		GuildID:  m.GuildID,
		ChatID:   m.ChannelID,
		UserID:   m.Author.ID,
		Username: m.Author.Username,
		Command:  name,
		Args:     args,
		SentAt:   m.Timestamp,
	}
	go c.execute(req, m.ID)
}

// execute runs one command and delivers its response.
func (c *Channel) execute(req commands.CommandRequest, messageID string) {
	cmd, exists := c.commands.Get(req.Command)
	if !exists {
		c.log.Debug("Unknown command", zap.String("command", req.Command))
		return
	}

	c.log.Info("Executing command",
		zap.String("command", cmd.Name),
		zap.String("user", req.Username),
		zap.String("guild_id", req.GuildID))

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	resp, err := cmd.Handler(ctx, req)
	if err != nil {
		c.log.Error("Command execution failed",
			zap.String("command", cmd.Name),
			zap.Error(err))
		resp = commands.Embed(c.theme.ErrorPage("Something went wrong while running that command."))
	}

	if err := c.respond(ctx, req, messageID, resp); err != nil {
		c.log.Error("Failed to send command response",
			zap.String("command", cmd.Name),
			zap.Error(err))
	}
}

func (c *Channel) respond(ctx context.Context, req commands.CommandRequest, messageID string, resp commands.CommandResponse) error {
	if resp.Reaction != "" {
		if err := c.api.MessageReactionAdd(req.ChatID, messageID, resp.Reaction, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("adding reaction: %w", err)
		}
	}

	if in := resp.Interaction; in != nil {
		switch in.Type {
		case commands.InteractionPaginate:
			_, err := c.paginator.Start(ctx, req.ChatID, req.UserID, in.Pages)
			return err
		case commands.InteractionPick:
			_, err := c.picker.Start(ctx, picker.Request{
				ChannelID:   req.ChatID,
				Owner:       req.UserID,
				Entries:     in.Entries,
				Placeholder: in.Placeholder,
				OnSelect:    in.OnSelect,
			})
			return err
		default:
			return fmt.Errorf("unknown interaction type %q", in.Type)
		}
	}

	if resp.Content == "" && len(resp.Pages) == 0 {
		return nil
	}
	_, err := c.transport.Send(ctx, req.ChatID, ui.View{Content: resp.Content, Pages: resp.Pages})
	return err
}

// handleInteraction forwards component interactions to their session. It
// runs on the event goroutine and never blocks on the network.
func (c *Channel) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent || i.Message == nil {
		return
	}
	c.dispatch(eventFromInteraction(i.Interaction, &responder{api: c.api, interaction: i.Interaction}))
}

func (c *Channel) dispatch(ev ui.Event) {
	err := c.router.Dispatch(ev)
	switch {
	case err == nil:
		return
	case errors.Is(err, collector.ErrNoSession), errors.Is(err, collector.ErrSessionEnded):
		c.log.Debug("Interaction on expired message",
			zap.String("message_id", ev.Target.MessageID),
			zap.String("control_id", ev.ControlID))
		go c.reply(ev, func(ctx context.Context) error { return ev.Responder.Reject(ctx, c.theme.Expired) })
	case errors.Is(err, collector.ErrInboxFull):
		c.log.Warn("Session inbox full, dropping interaction",
			zap.String("message_id", ev.Target.MessageID),
			zap.String("user_id", ev.UserID))
		go c.reply(ev, ev.Responder.Acknowledge)
	default:
		c.log.Error("Failed to dispatch interaction", zap.Error(err))
	}
}

func (c *Channel) reply(ev ui.Event, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		c.log.Warn("Failed to answer interaction",
			zap.String("interaction_id", ev.ID),
			zap.Error(err))
	}
}

func eventFromInteraction(i *discordgo.Interaction, r ui.Responder) ui.Event {
	data := i.MessageComponentData()
	userID, username := interactionUser(i)
	return ui.Event{
		ID:        i.ID,
		UserID:    userID,
		Username:  username,
		ControlID: data.CustomID,
		Values:    data.Values,
		Target:    ui.Target{ChannelID: i.ChannelID, MessageID: i.Message.ID},
		Responder: r,
	}
}

func interactionUser(i *discordgo.Interaction) (string, string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}
