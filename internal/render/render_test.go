package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srynk/pulse/internal/config"
)

func TestStripBold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two spans", "Hello **world**, **bye**", "Hello world, bye"},
		{"no markers", "plain text", "plain text"},
		{"empty", "", ""},
		{"empty span", "a****b", "ab"},
		{"unterminated", "a **b", "a **b"},
		{"non-greedy", "**a** and **b**", "a and b"},
		{"odd markers left to right", "**a**b**", "ab**"},
		{"does not cross newline", "**a\nb**", "**a\nb**"},
		{"single asterisks untouched", "*italic* and **bold**", "*italic* and bold"},
		{"six asterisks", "******", "**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBold(tt.input); got != tt.want {
				t.Errorf("StripBold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != ThemeDark {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestOptionsWithWidth(t *testing.T) {
	if got := DefaultOptions().WithWidth(120).Width; got != 120 {
		t.Errorf("expected Width=120, got %d", got)
	}
	if got := DefaultOptions().WithWidth(3).Width; got != 20 {
		t.Errorf("expected narrow width clamped to 20, got %d", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false

	opts := OptionsFromConfig(cfg)
	if opts.Style != "light" {
		t.Errorf("Style = %s, want light", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}

	t.Setenv("GLAMOUR_STYLE", "ascii")
	if got := OptionsFromConfig(cfg).Style; got != "ascii" {
		t.Errorf("GLAMOUR_STYLE should win, got %s", got)
	}

	t.Setenv("GLAMOUR_STYLE", "/nonexistent/style.json")
	if got := OptionsFromConfig(cfg).Style; got != ThemeDark {
		t.Errorf("unusable style should fall back to dark, got %s", got)
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		contains string
	}{
		{"heading", "# Hello World", "Hello"},
		{"code_block", "```go\nfmt.Println(\"hello\")\n```", "Println"},
		{"multiline", "Line 1\n\nLine 2", "Line"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	out := Reply("Hello there", DefaultOptions())
	if !strings.Contains(out, "Hello") {
		t.Errorf("Reply() = %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("Reply() should trim trailing newlines")
	}

	raw := Reply("raw text", DefaultOptions().WithStyle("nonexistent_style_path"))
	if raw != "raw text" {
		t.Errorf("Reply() fallback = %q, want raw text", raw)
	}
}

func TestTUIThemes(t *testing.T) {
	defer SetTUITheme("dark")

	if GetTUITheme().Name != "dark" {
		t.Errorf("default theme = %s, want dark", GetTUITheme().Name)
	}
	if !SetTUITheme("light") {
		t.Fatal("SetTUITheme(light) returned false")
	}
	if GetTUITheme().MarkdownStyle != ThemeLight {
		t.Errorf("light theme markdown style = %s", GetTUITheme().MarkdownStyle)
	}
	if SetTUITheme("neon") {
		t.Error("unknown theme should be rejected")
	}
	if GetTUITheme().Name != "light" {
		t.Error("rejected theme must not change the active theme")
	}

	if OppositeTheme("dark") != "light" || OppositeTheme("light") != "dark" {
		t.Error("OppositeTheme should flip dark and light")
	}
	if len(AvailableTUIThemes()) != 2 {
		t.Errorf("expected 2 TUI themes, got %d", len(AvailableTUIThemes()))
	}
}

func TestStyles(t *testing.T) {
	for _, name := range StyleNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%s listed but not builtin", name)
		}
	}
	if IsBuiltinStyle("/tmp/custom.json") {
		t.Error("paths are not builtin styles")
	}
	if len(BuiltinStyles()) != len(StyleNames()) {
		t.Error("BuiltinStyles and StyleNames disagree")
	}
	if got := TUIThemeNames(); len(got) != 2 || got[0] != "dark" || got[1] != "light" {
		t.Errorf("TUIThemeNames() = %v", got)
	}
}

func TestResolveStyle(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"empty", "", ThemeDark},
		{"builtin", "dracula", "dracula"},
		{"style file", file, file},
		{"missing file", filepath.Join(t.TempDir(), "nope.json"), ThemeDark},
		{"directory", t.TempDir(), ThemeDark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStyle(tt.style, ThemeDark); got != tt.want {
				t.Errorf("ResolveStyle(%q) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}
