package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stellarlinkco/mmlu-eval/internal/config"
	"github.com/stellarlinkco/mmlu-eval/internal/history"
	"github.com/stellarlinkco/mmlu-eval/internal/llm"
	"github.com/stellarlinkco/mmlu-eval/internal/mmlu"
	"github.com/stellarlinkco/mmlu-eval/internal/report"
)

type runOptions struct {
	provider   string
	model      string
	baseURL    string
	apiKey     string
	datasetDir string
	outputDir  string
	datasets   []string
	sampleSize int
	delay      time.Duration
	timeout    time.Duration
	seed       int64
	noHistory  bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate datasets against the configured endpoint",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "endpoint base URL (overrides config)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "credential token (overrides config)")
	cmd.Flags().StringVar(&opts.datasetDir, "dataset-dir", "", "dataset source directory")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "result artifact directory")
	cmd.Flags().StringSliceVar(&opts.datasets, "datasets", nil, "explicit dataset files (overrides directory scan)")
	cmd.Flags().IntVar(&opts.sampleSize, "sample-size", 0, "uniform per-dataset sample size (0 = all rows)")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "inter-call delay (0 disables the pause)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-call timeout")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "sampling seed (0 = random)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "skip saving run history")

	return cmd
}

func runEval(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}
	if opts.sampleSize < 0 {
		return fmt.Errorf("run: --sample-size must be >= 0 (got %d)", opts.sampleSize)
	}

	cfg := st.cfg
	applyRunOverrides(&cfg.Evaluation, cmd.Flags(), opts)

	provider, modelName, baseURL, err := resolveProvider(cfg, opts.provider, opts.model, opts.baseURL, opts.apiKey)
	if err != nil {
		return err
	}

	paths, err := resolveDatasetPaths(cfg.Evaluation)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("run: no datasets found in %q", cfg.Evaluation.DatasetDir)
	}

	var store *history.Store
	if !opts.noHistory {
		store, err = history.Open(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting evaluation of %d dataset(s)\n", len(paths))
	fmt.Fprintf(out, "Model: %s\n", modelName)
	fmt.Fprintf(out, "Endpoint: %s\n", baseURL)

	ev := &mmlu.Evaluator{
		Provider:    provider,
		SampleSize:  cfg.Evaluation.SampleSize,
		Seed:        cfg.Evaluation.Seed,
		MaxTokens:   cfg.Evaluation.MaxTokens,
		Temperature: cfg.Evaluation.Temperature,
		Timeout:     cfg.Evaluation.RequestTimeout,
		Delay:       cfg.Evaluation.CallDelay,
		Progress:    out,
	}

	agg := mmlu.NewAggregator(mmlu.RunConfig{
		BaseURL:    baseURL,
		Model:      modelName,
		SampleSize: cfg.Evaluation.SampleSize,
	})

	for _, path := range paths {
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Fprintf(out, "Dataset not found, skipping: %s\n", path)
			continue
		}
		if err := evalDataset(ctx, out, ev, agg, store, cfg.Evaluation.OutputDir, path, modelName, provider.Name()); err != nil {
			return err
		}
	}

	overall := agg.Result()
	printOverallSummary(out, overall)

	artifact, err := report.WriteOverallResult(cfg.Evaluation.OutputDir, overall)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nOverall results saved to: %s\n", artifact)
	return nil
}

// evalDataset runs one dataset end to end: evaluate, write the artifact,
// print the summary, fold into the aggregate, record history. The returned
// error is non-nil only on interruption; the interrupted dataset is dropped
// entirely rather than recorded with a partial score. Artifacts and history
// rows for datasets completed earlier in the run stay valid.
func evalDataset(ctx context.Context, out io.Writer, ev *mmlu.Evaluator, agg *mmlu.Aggregator, store *history.Store, outputDir, path, modelName, providerName string) error {
	name := mmlu.DatasetName(path)

	res, evalErr := ev.EvaluateFile(ctx, path)
	if evalErr != nil && (errors.Is(evalErr, context.Canceled) || errors.Is(evalErr, context.DeadlineExceeded)) {
		return evalErr
	}
	if evalErr != nil {
		// Schema or read failure: score the dataset as all-zero and move on.
		fmt.Fprintf(out, "Dataset %s failed: %v\n", name, evalErr)
	}
	if res == nil {
		return nil
	}

	if artifact, werr := report.WriteDatasetResult(outputDir, name, res); werr != nil {
		fmt.Fprintf(out, "Write result for %s failed: %v\n", name, werr)
	} else {
		fmt.Fprintf(out, "Results saved to: %s\n", artifact)
	}

	printDatasetSummary(out, name, res)
	agg.Add(name, res)

	if store != nil {
		entry := &history.Entry{
			Model:    modelName,
			Provider: providerName,
			Dataset:  name,
			Correct:  res.Correct,
			Total:    res.Total,
			Accuracy: res.Accuracy,
			RunAt:    time.Now().UTC(),
		}
		if herr := store.Save(ctx, entry); herr != nil {
			fmt.Fprintf(out, "Save history for %s failed: %v\n", name, herr)
		}
	}
	return nil
}

// applyRunOverrides layers flag values over the loaded config. Zero is a
// meaningful flag value for several of these (full evaluation, no pause,
// time-derived seed), so explicitly-set flags are distinguished from unset
// ones rather than compared against zero.
func applyRunOverrides(ev *config.EvaluationConfig, fs *pflag.FlagSet, opts *runOptions) {
	if v := strings.TrimSpace(opts.datasetDir); v != "" {
		ev.DatasetDir = v
	}
	if v := strings.TrimSpace(opts.outputDir); v != "" {
		ev.OutputDir = v
	}
	if len(opts.datasets) > 0 {
		ev.Datasets = opts.datasets
	}
	if fs.Changed("sample-size") {
		ev.SampleSize = opts.sampleSize
	}
	if fs.Changed("delay") {
		// The evaluator reads zero as "use the default pause", so an
		// explicit zero maps to the disable sentinel.
		if opts.delay <= 0 {
			ev.CallDelay = -1
		} else {
			ev.CallDelay = opts.delay
		}
	}
	if fs.Changed("timeout") && opts.timeout > 0 {
		ev.RequestTimeout = opts.timeout
	}
	if fs.Changed("seed") {
		ev.Seed = opts.seed
	}
}

func resolveDatasetPaths(ev config.EvaluationConfig) ([]string, error) {
	if len(ev.Datasets) > 0 {
		out := make([]string, 0, len(ev.Datasets))
		for _, name := range ev.Datasets {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
				out = append(out, name)
			} else {
				out = append(out, filepath.Join(ev.DatasetDir, name))
			}
		}
		return out, nil
	}
	return mmlu.ListDatasets(ev.DatasetDir)
}

func resolveProvider(cfg *config.Config, providerFlag, modelFlag, baseURLFlag, apiKeyFlag string) (llm.Provider, string, string, error) {
	if cfg == nil {
		return nil, "", "", fmt.Errorf("run: missing config")
	}

	providerName := strings.TrimSpace(providerFlag)
	if providerName == "" {
		providerName = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	providerName = normalizeProvider(providerName)
	if providerName == "" {
		return nil, "", "", fmt.Errorf("run: missing provider")
	}

	pcfg, ok := cfg.LLM.Providers[providerName]
	if !ok && strings.TrimSpace(baseURLFlag) == "" {
		available := make([]string, 0, len(cfg.LLM.Providers))
		for k := range cfg.LLM.Providers {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, "", "", fmt.Errorf("run: provider %q not configured (available: %s)", providerName, strings.Join(available, ", "))
	}

	if v := strings.TrimSpace(baseURLFlag); v != "" {
		pcfg.BaseURL = v
	}
	if v := strings.TrimSpace(apiKeyFlag); v != "" {
		pcfg.APIKey = v
	}
	model := strings.TrimSpace(modelFlag)
	if model == "" {
		model = strings.TrimSpace(pcfg.Model)
	}
	modelName := model
	if modelName == "" {
		modelName = "default"
	}
	pcfg.Model = model

	// Build through the shared registry so the command constructs
	// providers the same way any other config consumer does.
	runCfg := &config.Config{}
	runCfg.LLM.DefaultProvider = providerName
	runCfg.LLM.Providers = map[string]config.ProviderConfig{providerName: pcfg}

	provider, err := llm.DefaultProviderFromConfig(runCfg)
	if err != nil {
		return nil, "", "", err
	}
	return provider, modelName, pcfg.BaseURL, nil
}

func normalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "anthropic":
		return "claude"
	default:
		return name
	}
}
