package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion {bash|zsh|fish|powershell}",
	Short: "Generate a shell completion script",
	Long: `Writes a completion script for the given shell to stdout.

Bash:

  $ source <(crowdsim completion bash)

  # To load completions for each session, execute once:
  $ crowdsim completion bash > /etc/bash_completion.d/crowdsim

Zsh:

  $ crowdsim completion zsh > "${fpath[1]}/_crowdsim"

Fish:

  $ crowdsim completion fish > ~/.config/fish/completions/crowdsim.fish`,
	ValidArgs:     []string{"bash", "zsh", "fish", "powershell"},
	Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:          cmdRunCompletion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// cmdRunCompletion executes the completion CLI command
func cmdRunCompletion(cmd *cobra.Command, args []string) error {
	var err error
	switch args[0] {
	case "bash":
		err = cmd.Root().GenBashCompletionV2(os.Stdout, true)
	case "zsh":
		err = cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		err = cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to generate %s completion", args[0])
	}
	return nil
}
