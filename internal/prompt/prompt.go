// Package prompt asks for project fields on the terminal. It backs
// `bidkit project init`.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/klytics/bidkit/internal/project"
)

// ErrAborted is returned when the user presses Ctrl+C or Ctrl+D.
var ErrAborted = errors.New("input aborted")

// LineReader is the part of a readline instance the Asker uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Asker asks questions one line at a time.
type Asker struct {
	In  LineReader
	Out io.Writer
}

// Transports offered for completion.
var Transports = []string{"CIF", "CFR", "FOB", "EXW", "DAP", "DDP"}

// New creates an Asker on the terminal. Answers are kept in historyFile
// so earlier values can be recalled with the arrow keys.
func New(historyFile string) (*Asker, error) {
	if historyFile != "" {
		os.MkdirAll(filepath.Dir(historyFile), 0755)
	}

	var items []readline.PrefixCompleterInterface
	for _, t := range Transports {
		items = append(items, readline.PcItem(t))
	}
	items = append(items, readline.PcItem("y"), readline.PcItem("n"))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Asker{In: rl, Out: rl.Stdout()}, nil
}

// Close releases the terminal.
func (a *Asker) Close() error {
	return a.In.Close()
}

// Ask reads one answer. An empty answer takes def. When check is not
// nil the question repeats until check accepts the answer.
func (a *Asker) Ask(label, def string, check func(string) error) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	for {
		a.In.SetPrompt(prompt)
		line, err := a.In.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", ErrAborted
			}
			return "", err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		if check == nil {
			return answer, nil
		}
		if err := check(answer); err != nil {
			fmt.Fprintf(a.Out, "  %v\n", err)
			continue
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question.
func (a *Asker) Confirm(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	answer, err := a.Ask(label+" (y/n)", d, yesNo)
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

// Required rejects an empty answer.
func Required(s string) error {
	if s == "" {
		return errors.New("a value is required")
	}
	return nil
}

// Positive accepts a whole number greater than zero. A trailing unit
// is allowed: "1,200台" passes.
func Positive(s string) error {
	s = strings.ReplaceAll(s, ",", "")
	digits := strings.TrimRightFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return errors.New("enter a whole number greater than 0")
	}
	return nil
}

func yesNo(s string) error {
	switch strings.ToLower(s) {
	case "y", "yes", "n", "no", "是", "否":
		return nil
	}
	return errors.New("answer y or n")
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "是":
		return true
	}
	return false
}

func flag(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

// ProjectRecord walks through every project field and the goods list
// and returns the record once it validates. Defaults come from base,
// which may be nil.
func ProjectRecord(a *Asker, base *project.Record) (*project.Record, error) {
	if base == nil {
		base = &project.Record{}
	}
	r := &project.Record{}
	var err error

	text := []struct {
		label string
		def   string
		dst   *string
	}{
		{"Project name (项目名称)", base.Name, &r.Name},
		{"Tender code (招标编号)", base.Code, &r.Code},
		{"Bid date (投标日期, e.g. 2024年3月15日)", base.Date, &r.Date},
		{"Destination (目的地)", base.Destination, &r.Destination},
		{"Transport terms (运输方式)", firstNonEmpty(base.Transport, "CIF"), &r.Transport},
		{"Transport time (运输时间)", base.TransportTime, &r.TransportTime},
		{"Total value (总价值)", base.TotalValue, &r.TotalValue},
	}
	for _, q := range text {
		if *q.dst, err = a.Ask(q.label, q.def, Required); err != nil {
			return nil, err
		}
	}

	flags := []struct {
		label string
		def   string
		dst   *string
	}{
		{"Lowest price wins (最低价中标)", base.LowPrice, &r.LowPrice},
		{"Secondary list (二次清单)", base.SecondaryList, &r.SecondaryList},
		{"Technical service (技术服务)", base.TechService, &r.TechService},
		{"After-sales service (售后服务)", base.AfterSales, &r.AfterSales},
		{"Training (人员培训)", base.Training, &r.Training},
	}
	for _, q := range flags {
		yes, err := a.Confirm(q.label, isYes(q.def))
		if err != nil {
			return nil, err
		}
		*q.dst = flag(yes)
	}

	if r.TechService == "y" {
		if r.TechPeople, err = a.Ask("Technical service people", base.TechPeople, Positive); err != nil {
			return nil, err
		}
		if r.TechDays, err = a.Ask("Technical service days", base.TechDays, Positive); err != nil {
			return nil, err
		}
	}
	if r.Training == "y" {
		if r.TrainingPeople, err = a.Ask("Training people", base.TrainingPeople, Positive); err != nil {
			return nil, err
		}
		if r.TrainingDays, err = a.Ask("Training days", base.TrainingDays, Positive); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(a.Out, "Goods list: leave the name empty to finish.")
	for i := 1; ; i++ {
		var def project.CommodityRecord
		if i <= len(base.Commodities) {
			def = base.Commodities[i-1]
		}
		var c project.CommodityRecord
		if c.Name, err = a.Ask(fmt.Sprintf("Goods %d name", i), def.Name, nil); err != nil {
			return nil, err
		}
		if c.Name == "" {
			if i == 1 {
				fmt.Fprintln(a.Out, "  at least one item is required")
				i--
				continue
			}
			break
		}
		c.Serial = strconv.Itoa(i)
		if c.Quantity, err = a.Ask("  quantity", def.Quantity, Positive); err != nil {
			return nil, err
		}
		if c.Unit, err = a.Ask("  unit", firstNonEmpty(def.Unit, "台"), nil); err != nil {
			return nil, err
		}
		if c.HSCode, err = a.Ask("  HS code", def.HSCode, nil); err != nil {
			return nil, err
		}
		if c.Spec, err = a.Ask("  specification", def.Spec, nil); err != nil {
			return nil, err
		}
		if c.Standard, err = a.Ask("  inspection standard", def.Standard, nil); err != nil {
			return nil, err
		}
		r.Commodities = append(r.Commodities, c)
	}

	if r.Inspection, err = a.Ask("Goods needing third-party inspection (numbers, e.g. 1 3)", base.Inspection, nil); err != nil {
		return nil, err
	}
	if r.MainItems, err = a.Ask("Main goods (numbers)", base.MainItems, nil); err != nil {
		return nil, err
	}

	if _, err := project.FromRecord(r); err != nil {
		return nil, err
	}
	return r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
