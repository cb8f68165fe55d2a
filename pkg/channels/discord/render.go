package discord

import (
	"github.com/bwmarrin/discordgo"

	"tunebot/pkg/ui"
)

// maxButtonsPerRow is the Discord limit for buttons in one action row.
const maxButtonsPerRow = 5

func toEmbed(p ui.Page) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       p.Title,
		URL:         p.URL,
		Description: p.Description,
		Color:       p.Color,
	}
	if p.Thumbnail != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.Thumbnail}
	}
	if p.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: p.Footer}
	}
	if p.Author != "" {
		e.Author = &discordgo.MessageEmbedAuthor{Name: p.Author, IconURL: p.AuthorIcon}
	}
	for _, f := range p.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return e
}

func toEmbeds(pages []ui.Page) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, len(pages))
	for i, p := range pages {
		embeds[i] = toEmbed(p)
	}
	return embeds
}

// toComponents lays controls out in action rows. Buttons share rows of up
// to five; a select always takes a row of its own. The result is never nil
// so that an edit with no controls clears the message's components.
func toComponents(controls []ui.Control) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{}
	var buttons []discordgo.MessageComponent

	flush := func() {
		if len(buttons) > 0 {
			rows = append(rows, discordgo.ActionsRow{Components: buttons})
			buttons = nil
		}
	}

	for _, c := range controls {
		switch c.Kind {
		case ui.ControlSelect:
			flush()
			rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{toSelect(c)}})
		default:
			if len(buttons) == maxButtonsPerRow {
				flush()
			}
			buttons = append(buttons, toButton(c))
		}
	}
	flush()
	return rows
}

func toButton(c ui.Control) discordgo.Button {
	b := discordgo.Button{
		Label:    c.Label,
		Style:    buttonStyle(c.Style),
		CustomID: c.ID,
		Disabled: c.Disabled,
	}
	if c.Emoji != "" {
		b.Emoji = &discordgo.ComponentEmoji{Name: c.Emoji}
	}
	return b
}

func toSelect(c ui.Control) discordgo.SelectMenu {
	one := 1
	options := make([]discordgo.SelectMenuOption, len(c.Options))
	for i, o := range c.Options {
		options[i] = discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
		}
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    c.ID,
		Placeholder: c.Placeholder,
		MinValues:   &one,
		MaxValues:   1,
		Options:     options,
		Disabled:    c.Disabled,
	}
}

func buttonStyle(s ui.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case ui.StyleSecondary:
		return discordgo.SecondaryButton
	case ui.StyleSuccess:
		return discordgo.SuccessButton
	case ui.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
