package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mmlu-eval/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

// loadConfig resolves the run configuration. A missing file at the default
// path falls back to built-in defaults so the tool works with flags alone;
// an explicitly passed path must exist.
func (st *cliState) loadConfig() error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		if st.configPath == config.DefaultPath && os.IsNotExist(err) {
			st.cfg = config.Default()
			return nil
		}
		return err
	}
	st.cfg = cfg
	return nil
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "mmlu-eval",
		Short:         "Evaluate multiple-choice accuracy of a chat-completion endpoint",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newCheckCmd(st))
	root.AddCommand(newHistoryCmd(st))
	return root
}
