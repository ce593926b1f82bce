// Package watch regenerates bid documents when a project file changes.
// It monitors directories for project sources and calls a handler once
// per file after writes have settled.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds the watcher configuration.
type Config struct {
	Directories []string `json:"directories"`
	Pattern     string   `json:"pattern"` // regular expression on the file name
	Recursive   bool     `json:"recursive"`
	Debounce    int      `json:"debounceMs"` // Milliseconds to wait before processing
}

// Event represents a file event that was detected and processed.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"` // "processed", "error"
	Error     string    `json:"error,omitempty"`
}

// Handler is called with the path of a changed project file.
type Handler func(path string) error

// Watcher monitors directories for project files and calls Handler.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler Handler

	match    *regexp.Regexp
	events   []Event
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
	// running serialises handler calls so two regenerations never overlap
	running sync.Mutex
}

// Status represents the current watcher status.
type Status struct {
	Directories []string `json:"directories"`
	Pattern     string   `json:"pattern"`
	EventCount  int      `json:"eventCount"`
	Errors      int      `json:"errors"`
}

// New creates a new Watcher with the given configuration.
func New(config Config) (*Watcher, error) {
	if config.Pattern == "" {
		config.Pattern = `^project.*\.docx$`
	}
	match, err := regexp.Compile(config.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", config.Pattern, err)
	}
	if config.Debounce <= 0 {
		config.Debounce = 500
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	return &Watcher{
		Config:   config,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		match:    match,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the configured directories. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.Config.Directories {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("could not resolve %s: %w", dir, err)
		}

		if w.Config.Recursive {
			if err := w.addRecursive(absDir); err != nil {
				return err
			}
		} else if err := w.watcher.Add(absDir); err != nil {
			return fmt.Errorf("could not watch %s: %w", absDir, err)
		}
	}

	w.Logger.Printf("Watching %d directory(ies) for %s", len(w.Config.Directories), w.Config.Pattern)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			w.stopTimers()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

// Close releases the underlying watcher without starting it.
func (w *Watcher) Close() error {
	w.stopTimers()
	return w.watcher.Close()
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Matches reports whether a file name is a project source.
func (w *Watcher) Matches(path string) bool {
	base := filepath.Base(path)
	// Word lock files and editor temp files
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return false
	}
	return w.match.MatchString(base)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := event.Name
	if !w.Matches(path) {
		return
	}

	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	op := event.Op.String()
	w.debounce[path] = time.AfterFunc(time.Duration(w.Config.Debounce)*time.Millisecond, func() {
		w.process(path, op)
	})
	w.mu.Unlock()
}

func (w *Watcher) process(path, operation string) {
	w.mu.Lock()
	delete(w.debounce, path)
	w.mu.Unlock()

	w.running.Lock()
	defer w.running.Unlock()

	evt := Event{Time: time.Now(), Path: path, Operation: operation, Status: "processed"}
	if w.Handler != nil {
		if err := w.Handler(path); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.Printf("Error processing %s: %v", path, err)
		} else {
			w.Logger.Printf("Regenerated from %s", path)
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Status{
		Directories: w.Config.Directories,
		Pattern:     w.Config.Pattern,
		EventCount:  len(w.events),
	}
	for _, e := range w.events {
		if e.Status == "error" {
			s.Errors++
		}
	}
	return s
}

// Events returns all recorded events.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
