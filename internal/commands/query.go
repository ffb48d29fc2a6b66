package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/srynk/pulse/internal/config"
	apierrors "github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/render"
	"github.com/srynk/pulse/internal/tui"
)

// errFallback marks a turn that ended with a fallback message
var errFallback = errors.New("no reply")

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	fmt.Fprintf(s.w, "\r\033[K%s", tui.LoadingFrame(s.frame, s.message))
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	fmt.Fprintln(s.w, tui.Success(message))
}

// stopWithError stops the spinner and leaves the line clear
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery executes a single turn and prints the reply to stdout.
// In raw mode only the reply text is written; otherwise it is rendered as
// markdown inside a bubble with progress on stderr. A fallback reply is still
// printed, and reported as an error so the process exits non-zero.
func runQuery(ctx context.Context, stdout, stderr io.Writer, prompt string, raw bool) error {
	cfg := loadConfig(newCLILogger(stderr, "warn"))
	logger := newCLILogger(stderr, effectiveLogLevel(cfg))

	controller, backend, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	logger.Debug("query", "model", backend.GetModel().Name, "chars", len(prompt))

	var spin *spinner
	if !raw {
		spin = newSpinner(stderr, models.LoadingText)
		spin.start()
	}

	start := time.Now()
	out, err := controller.Submit(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		if errors.Is(err, apierrors.ErrEmptyInput) {
			return fmt.Errorf("prompt cannot be empty")
		}
		return err
	}
	logger.Debug("query finished",
		"outcome", out.Kind.String(),
		"duration", time.Since(start).Round(time.Millisecond))

	if out.Failed() {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(stderr, tui.FormatError(out.Err))
		}
		fmt.Fprintln(stdout, out.Text)
		return fmt.Errorf("%w: %s", errFallback, out.Kind)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	return writeReply(stdout, stderr, cfg, out.Text, raw)
}

// writeReply delivers reply text according to the output flags
func writeReply(stdout, stderr io.Writer, cfg config.Config, text string, raw bool) error {
	if !raw && cfg.CopyToClipboard {
		if err := deps.CopyToClipboard(text); err != nil {
			fmt.Fprintln(stderr, tui.Warn(fmt.Sprintf("Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(stderr, tui.Success("Copied to clipboard"))
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !raw {
			fmt.Fprintln(stderr, tui.Success("Response saved to "+outputFlag))
		}
		return nil
	}

	if raw {
		fmt.Fprint(stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	bubbleWidth := min(max(getTerminalWidth(stdout)-4, 40), 120)
	rendered := render.Reply(text, render.OptionsFromConfig(cfg).WithWidth(bubbleWidth-4))

	fmt.Fprintln(stdout, tui.ReplyHeader())
	fmt.Fprintln(stdout, tui.ReplyBubble(rendered, bubbleWidth))
	return nil
}

// getTerminalWidth returns the width of w's terminal or a default value
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isTTY returns true if w is connected to a terminal
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
