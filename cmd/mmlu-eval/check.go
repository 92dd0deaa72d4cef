package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/mmlu-eval/internal/llm"
)

const checkPrompt = "What is 1+1? Reply with just the number."

type checkOptions struct {
	provider string
	model    string
	baseURL  string
	apiKey   string
	timeout  time.Duration
}

// newCheckCmd probes endpoint connectivity with one trivial completion before
// committing to a long evaluation run.
func newCheckCmd(st *cliState) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the configured endpoint answers a trivial prompt",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "endpoint base URL (overrides config)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "credential token (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	return cmd
}

func runCheck(cmd *cobra.Command, st *cliState, opts *checkOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("check: missing config (internal error)")
	}

	provider, modelName, baseURL, err := resolveProvider(st.cfg, opts.provider, opts.model, opts.baseURL, opts.apiKey)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checking endpoint connectivity...\n")
	fmt.Fprintf(out, "Endpoint: %s\n", baseURL)
	fmt.Fprintf(out, "Model: %s\n", modelName)

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	resp, err := provider.Complete(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: "user", Content: checkPrompt}},
		MaxTokens: 10,
	})
	if err != nil {
		return fmt.Errorf("check: endpoint unreachable: %w", err)
	}

	fmt.Fprintf(out, "Endpoint OK\n")
	fmt.Fprintf(out, "Model reply: %s\n", resp.Text)
	fmt.Fprintf(out, "Tokens: in=%d out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return nil
}
