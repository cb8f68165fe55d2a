package discord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"tunebot/pkg/commands"
	"tunebot/pkg/config"
	"tunebot/pkg/logger"
	"tunebot/pkg/ui"
	"tunebot/pkg/ui/collector"
	"tunebot/pkg/ui/paginator"
	"tunebot/pkg/ui/picker"
	"tunebot/pkg/ui/uitest"
)

type reaction struct {
	channelID, messageID, emoji string
}

type fakeAPI struct {
	mu        sync.Mutex
	sent      []*discordgo.MessageSend
	edits     []*discordgo.MessageEdit
	responses []*discordgo.InteractionResponse
	reactions []reaction
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "m1", ChannelID: channelID}, nil
}

func (f *fakeAPI) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, reaction{channelID, messageID, emojiID})
	return nil
}

func (f *fakeAPI) Responses() []*discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), f.responses...)
}

func TestToComponents_Layout(t *testing.T) {
	if got := toComponents(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil components, got %#v", got)
	}

	buttons := make([]ui.Control, 6)
	for i := range buttons {
		buttons[i] = ui.Control{ID: string(rune('a' + i)), Kind: ui.ControlButton}
	}
	rows := toComponents(buttons)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 6 buttons, got %d", len(rows))
	}
	if n := len(rows[0].(discordgo.ActionsRow).Components); n != maxButtonsPerRow {
		t.Fatalf("expected a full first row, got %d", n)
	}

	mixed := []ui.Control{
		{ID: "b", Kind: ui.ControlButton, Emoji: "▶️", Style: ui.StyleDanger, Disabled: true},
		{ID: "s", Kind: ui.ControlSelect, Placeholder: "pick", Options: []ui.SelectOption{{Label: "x", Value: "0", Description: "1m 0s"}}},
	}
	rows = toComponents(mixed)
	if len(rows) != 2 {
		t.Fatalf("select must take its own row, got %d rows", len(rows))
	}
	btn := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	if btn.CustomID != "b" || !btn.Disabled || btn.Style != discordgo.DangerButton || btn.Emoji.Name != "▶️" {
		t.Fatalf("unexpected button: %+v", btn)
	}
	menu := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	if menu.CustomID != "s" || menu.MaxValues != 1 || *menu.MinValues != 1 || menu.Options[0].Description != "1m 0s" {
		t.Fatalf("unexpected select: %+v", menu)
	}
}

func TestToEmbed(t *testing.T) {
	e := toEmbed(ui.Page{
		Title:       "t",
		Description: "d",
		Color:       7,
		Thumbnail:   "https://img",
		Footer:      "f",
		Author:      "a",
		Fields:      []ui.Field{{Name: "n", Value: "v", Inline: true}},
	})
	if e.Title != "t" || e.Color != 7 || e.Thumbnail.URL != "https://img" || e.Footer.Text != "f" || e.Author.Name != "a" {
		t.Fatalf("unexpected embed: %+v", e)
	}
	if len(e.Fields) != 1 || !e.Fields[0].Inline {
		t.Fatalf("unexpected fields: %+v", e.Fields)
	}
	if bare := toEmbed(ui.Page{Description: "x"}); bare.Thumbnail != nil || bare.Footer != nil || bare.Author != nil {
		t.Fatalf("empty parts must be omitted: %+v", bare)
	}
}

func TestTransport_EditClearsControls(t *testing.T) {
	fake := &fakeAPI{}
	tr := &Transport{api: fake}

	target, err := tr.Send(context.Background(), "c1", ui.View{Pages: []ui.Page{{Description: "p"}}})
	if err != nil || target.MessageID != "m1" || target.ChannelID != "c1" {
		t.Fatalf("unexpected send result: %+v, %v", target, err)
	}

	view := ui.View{Pages: []ui.Page{{Description: "p"}}, Controls: []ui.Control{{ID: "x"}}}.WithoutControls()
	if err := tr.Edit(context.Background(), target, view); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	edit := fake.edits[0]
	if edit.ID != "m1" || edit.Channel != "c1" {
		t.Fatalf("edit addressed wrong message: %+v", edit)
	}
	if edit.Components == nil || len(*edit.Components) != 0 {
		t.Fatalf("edit must send an empty component list, got %#v", edit.Components)
	}
}

func TestResponder_ResponseTypes(t *testing.T) {
	fake := &fakeAPI{}
	r := &responder{api: fake, interaction: &discordgo.Interaction{ID: "i"}}
	ctx := context.Background()

	_ = r.Update(ctx, ui.View{Pages: []ui.Page{{Description: "p"}}})
	_ = r.Acknowledge(ctx)
	_ = r.Reject(ctx, "nope")

	got := fake.Responses()
	if got[0].Type != discordgo.InteractionResponseUpdateMessage || len(got[0].Data.Embeds) != 1 {
		t.Fatalf("unexpected update response: %+v", got[0])
	}
	if got[1].Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Fatalf("unexpected ack response: %+v", got[1])
	}
	if got[2].Type != discordgo.InteractionResponseChannelMessageWithSource ||
		got[2].Data.Flags != discordgo.MessageFlagsEphemeral || got[2].Data.Content != "nope" {
		t.Fatalf("unexpected reject response: %+v", got[2])
	}
}

func TestEventFromInteraction(t *testing.T) {
	i := &discordgo.Interaction{
		ID:        "int-1",
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "c1",
		Message:   &discordgo.Message{ID: "m1"},
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1", Username: "neo"}},
		Data:      discordgo.MessageComponentInteractionData{CustomID: "search_select", Values: []string{"2"}},
	}
	ev := eventFromInteraction(i, &uitest.Responder{})
	if ev.ID != "int-1" || ev.UserID != "u1" || ev.Username != "neo" || ev.ControlID != "search_select" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if v, _ := ev.SelectedValue(); v != "2" || ev.Target != (ui.Target{ChannelID: "c1", MessageID: "m1"}) {
		t.Fatalf("unexpected target or value: %+v", ev)
	}

	i.Member = nil
	i.User = &discordgo.User{ID: "dm-user"}
	if ev := eventFromInteraction(i, nil); ev.UserID != "dm-user" {
		t.Fatalf("expected DM user, got %q", ev.UserID)
	}
}

func newTestChannel(t *testing.T) (*Channel, *fakeAPI, *uitest.Transport) {
	t.Helper()
	log := logger.NewNop()
	theme := ui.DefaultTheme()
	router := collector.NewRouter()
	c := collector.New(log, router, theme)
	t.Cleanup(c.Close)

	fake := &fakeAPI{}
	tr := &uitest.Transport{}
	return &Channel{
		log:       log,
		config:    config.DiscordConfig{Prefix: "!"},
		api:       fake,
		transport: tr,
		commands:  commands.NewRegistry("!"),
		router:    router,
		paginator: paginator.New(log, tr, c, theme, time.Second),
		picker:    picker.New(log, tr, c, theme, time.Second),
		theme:     theme,
	}, fake, tr
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatch_ExpiredMessageGetsNotice(t *testing.T) {
	ch, _, _ := newTestChannel(t)
	ev, r := uitest.NewEvent(ui.Target{ChannelID: "c", MessageID: "gone"}, "u1", paginator.ControlNext)

	ch.dispatch(ev)

	waitFor(t, func() bool { return len(r.Rejections()) == 1 })
	if r.Rejections()[0] != ch.theme.Expired {
		t.Fatalf("expected expired notice, got %q", r.Rejections()[0])
	}
}

func TestDispatch_RoutesToSession(t *testing.T) {
	ch, _, tr := newTestChannel(t)
	ctx := context.Background()

	pages := []ui.Page{{Description: "1"}, {Description: "2"}}
	s, err := ch.paginator.Start(ctx, "c", "u1", pages)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	ev, r := uitest.NewEvent(s.Target(), "u1", paginator.ControlNext)
	ch.dispatch(ev)

	waitFor(t, func() bool { return len(r.Updates()) == 1 })
	if r.Updates()[0].Pages[0].Description != "2" {
		t.Fatalf("expected page 2, got %+v", r.Updates()[0])
	}
	if len(tr.Sent()) != 1 {
		t.Fatalf("expected one sent message, got %d", len(tr.Sent()))
	}
}

func TestRespond(t *testing.T) {
	ch, fake, tr := newTestChannel(t)
	ctx := context.Background()
	req := commands.CommandRequest{ChatID: "c", UserID: "u1"}

	if err := ch.respond(ctx, req, "orig", commands.CommandResponse{Reaction: "✅"}); err != nil {
		t.Fatalf("respond returned error: %v", err)
	}
	if len(fake.reactions) != 1 || fake.reactions[0] != (reaction{"c", "orig", "✅"}) {
		t.Fatalf("unexpected reactions: %+v", fake.reactions)
	}
	if len(tr.Sent()) != 0 {
		t.Fatal("a reaction-only response must not send a message")
	}

	if err := ch.respond(ctx, req, "orig", commands.Embed(ui.Page{Description: "hi"})); err != nil {
		t.Fatalf("respond returned error: %v", err)
	}
	if len(tr.Sent()) != 1 || len(tr.Sent()[0].View.Controls) != 0 {
		t.Fatalf("expected a plain embed, got %+v", tr.Sent())
	}

	resp := commands.Paginate([]ui.Page{{Description: "1"}, {Description: "2"}})
	if err := ch.respond(ctx, req, "orig", resp); err != nil {
		t.Fatalf("respond returned error: %v", err)
	}
	if got := tr.Sent()[1].View.Controls; len(got) != 5 {
		t.Fatalf("expected navigation controls, got %d", len(got))
	}

	pick := commands.Pick([]picker.Entry{{Title: "a"}}, "choose", func(context.Context, int, picker.Entry) (ui.Page, error) {
		return ui.Page{}, nil
	})
	if err := ch.respond(ctx, req, "orig", pick); err != nil {
		t.Fatalf("respond returned error: %v", err)
	}
	if got := tr.Sent()[2].View.Controls; len(got) != 1 || got[0].Kind != ui.ControlSelect {
		t.Fatalf("expected a select control, got %+v", got)
	}

	bad := commands.CommandResponse{Interaction: &commands.CommandInteraction{Type: "modal"}}
	if err := ch.respond(ctx, req, "orig", bad); err == nil {
		t.Fatal("expected error for unknown interaction type")
	}
}
