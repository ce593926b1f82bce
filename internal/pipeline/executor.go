// Package pipeline runs the generation steps that make up a bid package:
// the folder tree, the table of contents, the quotation workbook and the
// cover pages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klytics/bidkit/internal/config"
	"github.com/klytics/bidkit/internal/content"
	"github.com/klytics/bidkit/internal/cover"
	"github.com/klytics/bidkit/internal/directory"
	"github.com/klytics/bidkit/internal/history"
	"github.com/klytics/bidkit/internal/progress"
	"github.com/klytics/bidkit/internal/project"
	"github.com/klytics/bidkit/internal/quotation"
)

// Step names one artifact of the package.
type Step string

const (
	StepFolders   Step = "folders"
	StepContent   Step = "content"
	StepQuotation Step = "quotation"
	StepCover     Step = "cover"
)

// AllSteps is the order `bidkit generate` runs in.
var AllSteps = []Step{StepFolders, StepContent, StepQuotation, StepCover}

// ParseSteps turns names such as "quotation,cover" into steps, keeping
// the order of AllSteps.
func ParseSteps(names []string) ([]Step, error) {
	if len(names) == 0 {
		return AllSteps, nil
	}
	want := make(map[Step]bool)
	for _, n := range names {
		s := Step(strings.TrimSpace(strings.ToLower(n)))
		if !slices.Contains(AllSteps, s) {
			return nil, fmt.Errorf("unknown step %q (expected one of %s)", n, stepList())
		}
		want[s] = true
	}
	var steps []Step
	for _, s := range AllSteps {
		if want[s] {
			steps = append(steps, s)
		}
	}
	return steps, nil
}

func stepList() string {
	names := make([]string, len(AllSteps))
	for i, s := range AllSteps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Settings are the run parameters that come from configuration and flags.
type Settings struct {
	OutDir          string
	Quotation       quotation.Options
	QuotationPrefix string
	ContentPrefix   string
	CoverPrefix     string
	FolderPrefix    string
	// Paths overrides the output file of individual steps. The folder
	// tree always lands in OutDir.
	Paths  map[Step]string
	DryRun bool
}

// SettingsFromConfig maps the loaded configuration onto run settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OutDir: cfg.Output.Dir,
		Quotation: quotation.Options{
			Bidder:          cfg.Bidder,
			VATRate:         cfg.Rates.VAT,
			ConsumptionRate: cfg.Rates.Consumption,
			TaxRate:         cfg.Rates.Tax,
		},
		QuotationPrefix: cfg.Output.QuotationPrefix,
		ContentPrefix:   cfg.Output.ContentPrefix,
		CoverPrefix:     cfg.Output.CoverPrefix,
		FolderPrefix:    cfg.Output.FolderPrefix,
	}
}

// Path returns where step writes its artifact for p.
func (s Settings) Path(step Step, p *project.Project) string {
	if path := s.Paths[step]; path != "" && step != StepFolders {
		return path
	}
	dir := s.OutDir
	if dir == "" {
		dir = "."
	}
	switch step {
	case StepFolders:
		return filepath.Join(dir, directory.RootName(s.FolderPrefix, p.Name))
	case StepContent:
		return filepath.Join(dir, content.FileName(s.ContentPrefix, p.Name))
	case StepQuotation:
		return filepath.Join(dir, quotation.FileName(s.QuotationPrefix, p.Name))
	case StepCover:
		return filepath.Join(dir, cover.FileName(s.CoverPrefix, p.Name))
	}
	return ""
}

// StepResult holds the outcome of one step.
type StepResult struct {
	Step     Step          `json:"step"`
	Path     string        `json:"path"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`

	// Folders is filled by the folders step.
	Folders []directory.Result `json:"folders,omitempty"`
	// Workbook is filled by the quotation step.
	Workbook *quotation.Result `json:"workbook,omitempty"`
}

// ActionFunc produces the artifact of one step.
type ActionFunc func(ctx context.Context, p *project.Project, s Settings, path string) (StepResult, error)

// Executor runs steps in order. A failing step stops the run.
type Executor struct {
	Settings Settings
	Logger   *log.Logger
	Progress *progress.Bar

	actions map[Step]ActionFunc
}

// NewExecutor creates an executor with the standard actions registered.
// Debug lines go to stderr when verbose is set.
func NewExecutor(s Settings, verbose bool) *Executor {
	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "[generate] ", log.LstdFlags)
	}
	e := &Executor{
		Settings: s,
		Logger:   logger,
		actions:  make(map[Step]ActionFunc),
	}
	e.RegisterAction(StepFolders, makeFolders)
	e.RegisterAction(StepContent, writeContent)
	e.RegisterAction(StepQuotation, writeQuotation)
	e.RegisterAction(StepCover, writeCover)
	return e
}

// RegisterAction adds or replaces the handler of a step.
func (e *Executor) RegisterAction(step Step, fn ActionFunc) {
	e.actions[step] = fn
}

// Report summarises a run.
type Report struct {
	RunID    string        `json:"run_id"`
	Project  string        `json:"project"`
	Code     string        `json:"code"`
	Source   string        `json:"source,omitempty"`
	Items    int           `json:"items"`
	DryRun   bool          `json:"dry_run,omitempty"`
	Steps    []StepResult  `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// Run executes steps for p. The report is returned even when a step
// fails, holding the steps that ran.
func (e *Executor) Run(ctx context.Context, p *project.Project, steps []Step) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:   history.NewID(),
		Project: p.Name,
		Code:    p.Code,
		Source:  p.Source,
		Items:   p.ItemCount(),
		DryRun:  e.Settings.DryRun,
	}
	defer func() { report.Duration = time.Since(start) }()

	e.Logger.Printf("run %s: %s (%s), %d item(s), steps %v", report.RunID, p.Name, p.Code, p.ItemCount(), steps)

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		action, ok := e.actions[step]
		if !ok {
			return report, fmt.Errorf("no action registered for step %q", step)
		}

		path := e.Settings.Path(step, p)
		e.Logger.Printf("[%d/%d] %s -> %s", i+1, len(steps), step, path)

		stepStart := time.Now()
		result, err := action(ctx, p, e.Settings, path)
		result.Step = step
		if result.Path == "" {
			result.Path = path
		}
		result.Duration = time.Since(stepStart)
		if err != nil {
			result.Error = err.Error()
		}
		report.Steps = append(report.Steps, result)

		if e.Progress != nil {
			e.Progress.Step(string(step))
		}
		e.Logger.Printf("  %s done in %s", step, result.Duration.Round(time.Millisecond))

		if err != nil {
			return report, fmt.Errorf("%s: %w", step, err)
		}
	}
	return report, nil
}

// Entry converts the report into a history entry.
func (r *Report) Entry(command string, runErr error) history.Entry {
	e := history.Entry{
		ID:         r.RunID,
		Command:    command,
		Source:     r.Source,
		Project:    r.Project,
		Code:       r.Code,
		Items:      r.Items,
		DurationMs: r.Duration.Milliseconds(),
	}
	for _, s := range r.Steps {
		if s.Error == "" && !r.DryRun {
			e.Artifacts = append(e.Artifacts, history.Artifact{Kind: string(s.Step), Path: s.Path})
		}
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	return e
}

func makeFolders(_ context.Context, p *project.Project, s Settings, path string) (StepResult, error) {
	results, err := directory.Make(p, filepath.Dir(path), s.FolderPrefix, s.DryRun)
	counts := directory.Count(results)
	detail := fmt.Sprintf("%d created, %d existing", counts[directory.StatusCreated], counts[directory.StatusExisted])
	if s.DryRun {
		detail = fmt.Sprintf("%d planned", counts[directory.StatusPlanned])
	}
	return StepResult{Path: path, Detail: detail, Folders: results}, err
}

func writeContent(_ context.Context, p *project.Project, s Settings, path string) (StepResult, error) {
	if s.DryRun {
		return StepResult{Detail: "planned"}, nil
	}
	return StepResult{Detail: fmt.Sprintf("%d rows", len(content.Rows(p)))}, content.Generate(p, path)
}

func writeQuotation(_ context.Context, p *project.Project, s Settings, path string) (StepResult, error) {
	if s.DryRun {
		if _, _, err := quotation.Build(p, s.Quotation); err != nil {
			return StepResult{}, err
		}
		return StepResult{Detail: "planned"}, nil
	}
	res, err := quotation.Generate(p, s.Quotation, path)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{Detail: fmt.Sprintf("%d sheets", len(res.Sheets)), Workbook: res}, nil
}

func writeCover(_ context.Context, p *project.Project, s Settings, path string) (StepResult, error) {
	if s.DryRun {
		return StepResult{Detail: "planned"}, nil
	}
	return StepResult{Detail: fmt.Sprintf("%d pages", cover.Document(p, s.Quotation.Bidder).PageCount())}, cover.Generate(p, s.Quotation.Bidder, path)
}
