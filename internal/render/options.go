// Package render turns assistant replies into terminal output: bold
// stripping, pooled glamour rendering and the TUI color themes.
package render

// minWidth keeps word wrapping readable in very narrow terminals
const minWidth = 20

// Options selects a glamour renderer. It is comparable and doubles as the
// key of the renderer cache.
type Options struct {
	Width int
	// Style is a builtin glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions renders 80 columns in the dark style
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy wrapping at width, never below minWidth
func (o Options) WithWidth(width int) Options {
	o.Width = max(width, minWidth)
	return o
}

// WithStyle returns a copy using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
