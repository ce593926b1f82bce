package completion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "bidkit"}
	root.AddCommand(&cobra.Command{Use: "generate", Short: "Generate the bid package", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(&cobra.Command{Use: "quote", Short: "Generate the quotation", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(NewCommand(root))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := testRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"# bidkit bash completion", "__start_bidkit"}},
		{"zsh", []string{"compdef", "_bidkit"}},
		{"fish", []string{"complete -c bidkit"}},
		{"powershell", []string{"bidkit"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := run(t, tt.shell)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("%s completion does not contain %q", tt.shell, w)
				}
			}
		})
	}
}

func TestCompletionUnsupportedShell(t *testing.T) {
	if _, err := run(t, "tcsh"); err == nil {
		t.Fatal("expected an error for tcsh")
	}
}
