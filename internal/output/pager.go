package output

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// DefaultTermHeight is used when the terminal height is unknown.
const DefaultTermHeight = 40

// TermHeight returns the height from $LINES, or DefaultTermHeight.
func TermHeight() int {
	if n, err := strconv.Atoi(os.Getenv("LINES")); err == nil && n > 0 {
		return n
	}
	return DefaultTermHeight
}

// ShouldPage reports whether content is taller than termHeight and stdout
// is an interactive terminal. JSON mode never pages.
func ShouldPage(content string, termHeight int) bool {
	if os.Getenv("BIDKIT_JSON") == "true" || !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	return strings.Count(content, "\n") > termHeight
}

// Page pipes content through BIDKIT_PAGER, PAGER, or "less -R".
func Page(content string) error {
	pager := os.Getenv("BIDKIT_PAGER")
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	args := strings.Fields(pager)
	if len(args) == 0 {
		args = []string{"less", "-R"}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
