// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// shells maps each supported shell to its install hint and generator.
var shells = map[string]struct {
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}{
	"bash": {
		install: "bidkit completion bash > /etc/bash_completion.d/bidkit",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	"zsh": {
		install: "bidkit completion zsh > ~/.zsh/completions/_bidkit",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	"fish": {
		install: "bidkit completion fish > ~/.config/fish/completions/bidkit.fish",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	"powershell": {
		install: "bidkit completion powershell >> $PROFILE",
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for bidkit.

Install instructions:
  Bash:       bidkit completion bash > /etc/bash_completion.d/bidkit
              echo 'source <(bidkit completion bash)' >> ~/.bashrc
  Zsh:        bidkit completion zsh > ~/.zsh/completions/_bidkit
  Fish:       bidkit completion fish > ~/.config/fish/completions/bidkit.fish
  PowerShell: bidkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell, ok := shells[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# bidkit %s completion\n", args[0])
			fmt.Fprintf(out, "# Install: %s\n\n", shell.install)
			return shell.gen(rootCmd, out)
		},
	}
	return cmd
}
