// Package commands provides the prefix command system for the bot.
package commands

import (
	"context"
	"time"

	"tunebot/pkg/ui"
	"tunebot/pkg/ui/picker"
)

// Command categories, in help order.
const (
	CategoryInfo    = "info"
	CategoryMusic   = "music"
	CategoryFilters = "filters"
)

// Command represents a prefix command that can be executed.
type Command struct {
	// Name is the command name (without prefix)
	Name string
	// Aliases are alternative names resolving to the same command
	Aliases []string
	// Category groups commands in help
	Category string
	// Description is a short description of what the command does
	Description string
	// Usage shows how to use the command, without prefix
	Usage string
	// Handler is the function that executes the command
	Handler CommandHandler
}

// CommandHandler is a function that handles a command.
type CommandHandler func(ctx context.Context, req CommandRequest) (CommandResponse, error)

// CommandRequest contains information about a command invocation.
type CommandRequest struct {
	// Channel is the host name (discord)
	Channel string
	// GuildID identifies the server; players are keyed by it
	GuildID string
	// ChatID identifies the text channel
	ChatID string
	// UserID identifies the user who invoked the command
	UserID string
	// Username is the display name of the user
	Username string
	// Command is the resolved command name
	Command string
	// Args are the command arguments (text after the command)
	Args string
	// SentAt is when the invoking message was created
	SentAt time.Time
}

// CommandResponse contains the command execution result.
type CommandResponse struct {
	// Content is plain response text
	Content string
	// Pages are embeds sent together with Content
	Pages []ui.Page
	// Reaction is added to the invoking message instead of replying
	Reaction string
	// Interaction asks the host to open an interactive message.
	Interaction *CommandInteraction
}

// Interaction types.
const (
	// InteractionPaginate shows Pages one at a time with navigation buttons.
	InteractionPaginate = "paginate"
	// InteractionPick shows Entries in a select menu and calls OnSelect.
	InteractionPick = "pick"
)

// CommandInteraction describes an interactive follow-up the host runs on
// behalf of the invoking user.
type CommandInteraction struct {
	// Type is InteractionPaginate or InteractionPick
	Type string
	// Pages for InteractionPaginate
	Pages []ui.Page
	// Entries, Placeholder and OnSelect for InteractionPick
	Entries     []picker.Entry
	Placeholder string
	OnSelect    picker.SelectFunc
}

// Paginate wraps pages in a paginated response.
func Paginate(pages []ui.Page) CommandResponse {
	return CommandResponse{Interaction: &CommandInteraction{Type: InteractionPaginate, Pages: pages}}
}

// Pick wraps entries in a picker response.
func Pick(entries []picker.Entry, placeholder string, onSelect picker.SelectFunc) CommandResponse {
	return CommandResponse{Interaction: &CommandInteraction{
		Type:        InteractionPick,
		Entries:     entries,
		Placeholder: placeholder,
		OnSelect:    onSelect,
	}}
}

// Embed wraps a single page.
func Embed(page ui.Page) CommandResponse {
	return CommandResponse{Pages: []ui.Page{page}}
}
