package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mmlu-eval/internal/history"
)

type historyOptions struct {
	dataset string
	model   string
	limit   int
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored evaluation runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "filter by dataset name")
	cmd.Flags().StringVar(&opts.model, "model", "", "filter by model name")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max entries (0 = default)")

	return cmd
}

func runHistory(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}
	if opts.limit < 0 {
		return fmt.Errorf("history: --limit must be >= 0 (got %d)", opts.limit)
	}

	store, err := history.Open(st.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), history.Filter{
		Dataset: opts.dataset,
		Model:   opts.model,
		Limit:   opts.limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No stored runs.")
		return nil
	}

	fmt.Fprint(out, formatHistoryTable(entries))
	return nil
}
