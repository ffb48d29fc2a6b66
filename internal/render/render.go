package render

import "strings"

// Markdown renders content with a renderer borrowed for opts
func Markdown(content string, opts Options) (string, error) {
	tr, err := sharedRenderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer sharedRenderers.giveBack(opts, tr)

	return tr.Render(content)
}

// MarkdownWithWidth renders in the active TUI theme's style
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width).WithStyle(GetTUITheme().MarkdownStyle))
}

// Reply renders an assistant reply without glamour's trailing newlines.
// When rendering fails the text is returned as is.
func Reply(text string, opts Options) string {
	out, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
