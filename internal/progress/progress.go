// Package progress reports the steps of a generation run on a terminal.
// All output goes to stderr so stdout stays clean for --json and pipes.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Bar renders an ASCII progress bar, one tick per generated artifact.
type Bar struct {
	Total   int
	Current int
	Label   string
	Width   int
	Enabled bool
	Out     io.Writer

	started time.Time
	mu      sync.Mutex
}

// New creates a progress bar.
// Disabled when stderr is not a TTY, with --json, or with BIDKIT_NO_PROGRESS=1.
func New(label string, total int) *Bar {
	return &Bar{
		Total:   total,
		Label:   label,
		Width:   30,
		Enabled: shouldEnable(),
		Out:     os.Stderr,
		started: time.Now(),
	}
}

// Step advances the bar by one and shows what was just done.
func (b *Bar) Step(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Current = min(b.Current+1, b.Total)
	b.render(status)
}

// Finish prints a final completion line with the elapsed time.
func (b *Bar) Finish(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.Enabled {
		return
	}
	elapsed := time.Since(b.started).Round(time.Millisecond)
	fmt.Fprintf(b.Out, "\r\033[K✓ %s (%s)\n", summary, elapsed)
}

func (b *Bar) render(status string) {
	if !b.Enabled {
		return
	}
	filled := 0
	if b.Total > 0 {
		filled = min(b.Current*b.Width/b.Total, b.Width)
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", b.Width-filled)
	fmt.Fprintf(b.Out, "\r\033[K%s [%s] %d/%d  %s", b.Label, bar, b.Current, b.Total, status)
}

// Spinner shows activity while a single artifact is written.
type Spinner struct {
	Label   string
	Enabled bool
	Out     io.Writer

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

// NewSpinner creates a spinner.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		Label:   label,
		Enabled: shouldEnable(),
		Out:     os.Stderr,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.Enabled {
		return
	}

	s.mu.Lock()
	if s.done != nil {
		// a restart ends the previous animation
		select {
		case <-s.done:
		default:
			close(s.done)
		}
	}
	s.stopped = false
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go func() {
		frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(s.Out, "\r\033[K%c %s", frames[i%len(frames)], s.Label)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and prints a result. An empty result only
// clears the line.
func (s *Spinner) Stop(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true

	select {
	case <-s.done:
	default:
		close(s.done)
	}

	switch {
	case !s.Enabled:
	case result == "":
		fmt.Fprint(s.Out, "\r\033[K")
	default:
		fmt.Fprintf(s.Out, "\r\033[K✓ %s\n", result)
	}
}

func shouldEnable() bool {
	if os.Getenv("BIDKIT_NO_PROGRESS") == "1" {
		return false
	}
	// set by the root command for --json
	if os.Getenv("BIDKIT_JSON") == "true" {
		return false
	}
	return isTTY()
}

func isTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
