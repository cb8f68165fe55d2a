package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"tunebot/pkg/ui"
)

// api is the subset of *discordgo.Session used by the host.
type api interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

var _ api = (*discordgo.Session)(nil)

// Transport implements ui.Transport over the Discord REST API.
type Transport struct {
	api api
}

// NewTransport wraps a discordgo session.
func NewTransport(session *discordgo.Session) *Transport {
	return &Transport{api: session}
}

// Send implements ui.Transport.
func (t *Transport) Send(ctx context.Context, channelID string, view ui.View) (ui.Target, error) {
	msg, err := t.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    view.Content,
		Embeds:     toEmbeds(view.Pages),
		Components: toComponents(view.Controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return ui.Target{}, fmt.Errorf("sending discord message: %w", err)
	}
	return ui.Target{ChannelID: channelID, MessageID: msg.ID}, nil
}

// Edit implements ui.Transport. The whole render is replaced, so missing
// controls are cleared from the message.
func (t *Transport) Edit(ctx context.Context, target ui.Target, view ui.View) error {
	content := view.Content
	embeds := toEmbeds(view.Pages)
	components := toComponents(view.Controls)

	_, err := t.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         target.MessageID,
		Channel:    target.ChannelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing discord message %s: %w", target.MessageID, err)
	}
	return nil
}

// responder answers one component interaction.
type responder struct {
	api         api
	interaction *discordgo.Interaction
}

// Update implements ui.Responder.
func (r *responder) Update(ctx context.Context, view ui.View) error {
	return r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    view.Content,
			Embeds:     toEmbeds(view.Pages),
			Components: toComponents(view.Controls),
		},
	}, discordgo.WithContext(ctx))
}

// Acknowledge implements ui.Responder.
func (r *responder) Acknowledge(ctx context.Context) error {
	return r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
}

// Reject implements ui.Responder.
func (r *responder) Reject(ctx context.Context, content string) error {
	return r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
}
