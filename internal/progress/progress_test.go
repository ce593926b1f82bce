package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer lets the spinner goroutine and the test share output.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewDisabledInNonTTY(t *testing.T) {
	bar := New("test", 10)
	if bar.Enabled && !isTTY() {
		t.Error("expected bar to be disabled in non-TTY")
	}
}

func TestNewWithEnvDisable(t *testing.T) {
	t.Setenv("BIDKIT_NO_PROGRESS", "1")
	if New("test", 10).Enabled {
		t.Error("expected bar to be disabled with BIDKIT_NO_PROGRESS=1")
	}
	if NewSpinner("test").Enabled {
		t.Error("expected spinner to be disabled with BIDKIT_NO_PROGRESS=1")
	}
}

func TestNewWithJSONDisable(t *testing.T) {
	t.Setenv("BIDKIT_JSON", "true")
	if New("test", 10).Enabled {
		t.Error("expected bar to be disabled with BIDKIT_JSON=true")
	}
}

func TestBarStep(t *testing.T) {
	bar := &Bar{Total: 3, Width: 30}
	for _, s := range []string{"a", "b", "c", "d"} {
		bar.Step(s)
	}
	if bar.Current != 3 {
		t.Errorf("expected current capped at 3, got %d", bar.Current)
	}
}

func TestBarRender(t *testing.T) {
	var out bytes.Buffer
	bar := &Bar{Total: 4, Width: 8, Label: "generate", Enabled: true, Out: &out, started: time.Now()}
	bar.Step("quotation")
	bar.Step("toc")
	if !strings.Contains(out.String(), "generate [====    ] 2/4  toc") {
		t.Errorf("unexpected render: %q", out.String())
	}
	bar.Finish("4 artifacts")
	if !strings.Contains(out.String(), "✓ 4 artifacts (") {
		t.Errorf("missing summary: %q", out.String())
	}
}

func TestDisabledBarDoesNotWrite(t *testing.T) {
	var out bytes.Buffer
	bar := &Bar{Total: 10, Width: 30, Out: &out}
	bar.Step("test")
	bar.Finish("done")
	if out.Len() > 0 {
		t.Errorf("disabled bar wrote %q", out.String())
	}
}

func TestSpinnerStartStopDisabled(t *testing.T) {
	s := &Spinner{Label: "test", done: make(chan struct{})}
	s.Start()
	s.Stop("done")
}

func TestSpinnerStartStop(t *testing.T) {
	out := &lockedBuffer{}
	s := &Spinner{Label: "writing", Enabled: true, Out: out, done: make(chan struct{})}
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop("complete")
	if !strings.Contains(out.String(), "✓ complete") {
		t.Errorf("missing result line: %q", out.String())
	}
}

func TestSpinnerRestart(t *testing.T) {
	out := &lockedBuffer{}
	s := &Spinner{Label: "writing", Enabled: true, Out: out, done: make(chan struct{})}
	for _, result := range []string{"first", "second"} {
		s.Start()
		time.Sleep(100 * time.Millisecond)
		s.Stop(result)
	}
	s.Start()
	s.Start()
	s.Stop("third")
	for _, want := range []string{"✓ first", "✓ second", "✓ third"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %q", want, out.String())
		}
	}
}

func TestSpinnerStopEmptyClearsLine(t *testing.T) {
	var out bytes.Buffer
	s := &Spinner{Label: "writing", Enabled: true, Out: &out, done: make(chan struct{})}
	s.Stop("")
	if out.String() != "\r\033[K" {
		t.Errorf("Stop(\"\") wrote %q", out.String())
	}
}
