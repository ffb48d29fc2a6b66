package render

import (
	"os"

	"github.com/srynk/pulse/internal/config"
)

// OptionsFromConfig maps the markdown settings onto renderer options.
// GLAMOUR_STYLE overrides the configured style; a style that is neither
// builtin nor a readable file falls back to dark.
func OptionsFromConfig(cfg config.Config) Options {
	md := cfg.Markdown
	opts := Options{
		Width:            DefaultOptions().Width,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	opts.Style = ResolveStyle(opts.Style, ThemeDark)
	return opts
}
