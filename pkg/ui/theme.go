package ui

// Colors used for page accents.
type Colors struct {
	Main  int `mapstructure:"main" json:"main" yaml:"main"`
	Error int `mapstructure:"error" json:"error" yaml:"error"`
}

// PageEmoji holds the glyphs drawn on pagination buttons.
type PageEmoji struct {
	First  string `mapstructure:"first" json:"first" yaml:"first"`
	Back   string `mapstructure:"back" json:"back" yaml:"back"`
	Next   string `mapstructure:"next" json:"next" yaml:"next"`
	Last   string `mapstructure:"last" json:"last" yaml:"last"`
	Cancel string `mapstructure:"cancel" json:"cancel" yaml:"cancel"`
}

// Theme is the presentation context handed to every UI component.
type Theme struct {
	Colors Colors    `mapstructure:"colors" json:"colors" yaml:"colors"`
	Emoji  PageEmoji `mapstructure:"emoji" json:"emoji" yaml:"emoji"`
	// Done is the reaction/prefix used to confirm simple actions.
	Done string `mapstructure:"done" json:"done" yaml:"done"`
	// NotOwner is the ephemeral notice shown to users who did not open a session.
	NotOwner string `mapstructure:"not_owner" json:"not_owner" yaml:"not_owner"`
	// Expired is shown when a control belongs to a session that already ended.
	Expired string `mapstructure:"expired" json:"expired" yaml:"expired"`
}

// DefaultTheme returns the stock theme.
func DefaultTheme() Theme {
	return Theme{
		Colors: Colors{
			Main:  0x7289DA,
			Error: 0xED4245,
		},
		Emoji: PageEmoji{
			First:  "⏮️",
			Back:   "◀️",
			Next:   "▶️",
			Last:   "⏭️",
			Cancel: "⏹️",
		},
		Done:     "✅",
		NotOwner: "You can't use these buttons.",
		Expired:  "This menu has expired.",
	}
}

// ErrorPage builds a page in the error color.
func (t Theme) ErrorPage(description string) Page {
	return Page{Description: description, Color: t.Colors.Error}
}

// InfoPage builds a page in the main color.
func (t Theme) InfoPage(description string) Page {
	return Page{Description: description, Color: t.Colors.Main}
}
