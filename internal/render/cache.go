package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle caps the idle renderers kept per option set
const maxIdle = 4

// rendererCache lends glamour renderers out one caller at a time.
// A TermRenderer must not run concurrent Render calls.
type rendererCache struct {
	mu      sync.Mutex
	idle    map[Options][]*glamour.TermRenderer
	created int
}

var sharedRenderers = newRendererCache()

func newRendererCache() *rendererCache {
	return &rendererCache{idle: make(map[Options][]*glamour.TermRenderer)}
}

// borrow takes an idle renderer for opts or builds a new one
func (c *rendererCache) borrow(opts Options) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	if free := c.idle[opts]; len(free) > 0 {
		tr := free[len(free)-1]
		c.idle[opts] = free[:len(free)-1]
		c.mu.Unlock()
		return tr, nil
	}
	c.mu.Unlock()

	tr, err := newTermRenderer(opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.created++
	c.mu.Unlock()
	return tr, nil
}

// giveBack returns tr to the idle list unless the list is full
func (c *rendererCache) giveBack(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.idle[opts]) < maxIdle {
		c.idle[opts] = append(c.idle[opts], tr)
	}
}

// counts reports renderers built so far and renderers idle for opts
func (c *rendererCache) counts(opts Options) (created, idle int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created, len(c.idle[opts])
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}
