package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/history"
	"github.com/klytics/bidkit/internal/progress"
	"github.com/klytics/bidkit/internal/project"
)

// Invocation describes one command-line run.
type Invocation struct {
	Command string
	// Source is the project file; when empty the first file in the
	// working directory matching source.pattern is used.
	Source  string
	Steps   []Step
	OutDir  string
	Paths   map[Step]string
	DryRun  bool
	Verbose bool
	// History disables the run log when false.
	History bool
}

// HistoryPath is the run log inside the config directory.
func HistoryPath() string {
	return filepath.Join(config.Dir(), history.FileName)
}

// Record appends a run to the history log. Logging is best-effort.
func Record(entry history.Entry) {
	history.NewLogger(HistoryPath(), true).Log(entry)
}

// Execute loads configuration and the project, then runs the steps
// with a progress bar on stderr. Every run that reaches the project
// loader is written to the history log.
func Execute(ctx context.Context, inv Invocation) (*Report, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	source := inv.Source
	if source == "" {
		source, err = project.Discover(".", cfg.Source.Pattern)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	p, err := project.Load(source)
	if err != nil {
		if inv.History {
			Record(history.Entry{
				Command:    inv.Command,
				Source:     source,
				DurationMs: time.Since(start).Milliseconds(),
				Error:      err.Error(),
			})
		}
		return nil, err
	}

	s := SettingsFromConfig(cfg)
	if inv.OutDir != "" {
		s.OutDir = inv.OutDir
	}
	s.Paths = inv.Paths
	s.DryRun = inv.DryRun

	steps := inv.Steps
	if len(steps) == 0 {
		steps = AllSteps
	}

	e := NewExecutor(s, inv.Verbose)

	var report *Report
	if len(steps) == 1 {
		// a single artifact gets a spinner instead of a 1/1 bar
		spin := progress.NewSpinner(fmt.Sprintf("%s: writing %s for %s", inv.Command, steps[0], p.Name))
		spin.Start()
		report, err = e.Run(ctx, p, steps)
		if err != nil {
			spin.Stop("")
		} else {
			spin.Stop(summary(report))
		}
	} else {
		bar := progress.New(inv.Command, len(steps))
		e.Progress = bar
		report, err = e.Run(ctx, p, steps)
		if err == nil {
			bar.Finish(summary(report))
		}
	}
	if inv.History {
		Record(report.Entry(inv.Command, err))
	}
	return report, err
}

func summary(r *Report) string {
	if r.DryRun {
		return "dry run: " + r.Project
	}
	if len(r.Steps) == 1 {
		return "1 artifact for " + r.Project
	}
	return fmt.Sprintf("%d artifacts for %s", len(r.Steps), r.Project)
}
