// Command credprobe tests credential pairs against an HTTP login endpoint.
//
// Only use it against systems you are authorized to test.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"credprobe/internal/attempt"
	"credprobe/internal/collector"
	"credprobe/internal/config"
	"credprobe/internal/creds"
	"credprobe/internal/history"
	"credprobe/internal/output"
	"credprobe/internal/progress"
	"credprobe/internal/report"
	"credprobe/internal/scheduler"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

type flags struct {
	configPath string

	url              string
	usernames        []string
	passwords        []string
	usernameFile     string
	passwordFile     string
	usernameField    string
	passwordField    string
	successIndicator string
	failureIndicator string
	headers          []string
	timeout          time.Duration
	delay            time.Duration
	parallel         bool
	workers          int
	rate             int

	outputFile  string
	format      string
	quiet       bool
	verbose     bool
	saveHistory bool
}

func main() {
	root := newRootCmd()
	root.AddCommand(newHistoryCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "credprobe",
		Short: "Automated login credential testing tool",
		Long: `credprobe submits every combination of the given usernames and passwords
to a login endpoint, classifies each response, and reports which pairs
logged in. Only use it against systems you are authorized to test.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file; flags override its values")

	cmd.Flags().StringVarP(&f.url, "url", "u", "", "login endpoint URL (required unless set in config)")
	cmd.Flags().StringArrayVar(&f.usernames, "usernames", nil, "username to test (repeatable)")
	cmd.Flags().StringArrayVar(&f.passwords, "passwords", nil, "password to test (repeatable)")
	cmd.Flags().StringVar(&f.usernameFile, "username-file", "", "file with usernames, one per line")
	cmd.Flags().StringVar(&f.passwordFile, "password-file", "", "file with passwords, one per line")
	cmd.Flags().StringVar(&f.usernameField, "username-field", config.DefaultUsernameField, "form field carrying the username")
	cmd.Flags().StringVar(&f.passwordField, "password-field", config.DefaultPasswordField, "form field carrying the password")
	cmd.Flags().StringVar(&f.successIndicator, "success-indicator", "", "body substring indicating a successful login")
	cmd.Flags().StringVar(&f.failureIndicator, "failure-indicator", "", "body substring indicating a failed login")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `extra request header ("Key: Value")`)
	cmd.Flags().DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "per-request timeout")
	cmd.Flags().DurationVar(&f.delay, "delay", config.DefaultDelay, "pause between attempts (sequential mode)")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "run attempts concurrently")
	cmd.Flags().IntVar(&f.workers, "workers", config.DefaultWorkers, "max concurrent attempts (parallel mode)")
	cmd.Flags().IntVar(&f.rate, "rate", 0, "max attempt starts per second, 0 = uncapped (parallel mode)")

	cmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "write results to file (.json or .csv)")
	cmd.Flags().StringVar(&f.format, "format", "text", "report format: text, json")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log requests and responses (passwords redacted)")
	cmd.Flags().BoolVar(&f.saveHistory, "history", false, "record the run summary in the history database")

	return cmd
}

// buildConfig merges the optional config file with explicitly set flags;
// flags win, matching how overrides work elsewhere in the tool.
func buildConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("url") {
		cfg.URL = f.url
	}
	if set("username-field") {
		cfg.UsernameField = f.usernameField
	}
	if set("password-field") {
		cfg.PasswordField = f.passwordField
	}
	if set("success-indicator") {
		cfg.SuccessIndicator = f.successIndicator
	}
	if set("failure-indicator") {
		cfg.FailureIndicator = f.failureIndicator
	}
	if set("timeout") {
		cfg.Timeout = f.timeout
	}
	if set("delay") {
		cfg.Delay = f.delay
	}
	if set("parallel") {
		cfg.Parallel = f.parallel
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("rate") {
		cfg.Rate = f.rate
	}
	if set("header") {
		headers, err := parseHeaders(f.headers)
		if err != nil {
			return config.Config{}, err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}

	return cfg, cfg.Validate()
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, found := strings.Cut(h, ":")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q (use \"Key: Value\")", h)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func run(cmd *cobra.Command, f *flags) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("--format must be 'text' or 'json', got %q", f.format)
	}

	cfg, err := buildConfig(cmd, f)
	if err != nil {
		return err
	}

	usernames, err := creds.Load(f.usernames, f.usernameFile)
	if err != nil {
		return err
	}
	passwords, err := creds.Load(f.passwords, f.passwordFile)
	if err != nil {
		return err
	}

	var debugLogger *attempt.DebugLogger
	if f.verbose {
		debugLogger = attempt.NewDebugLogger(os.Stderr)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	executor := attempt.NewExecutor(cfg, client, debugLogger)
	coll := collector.NewCollector()
	sched := scheduler.New(executor, coll, cfg)

	total := len(usernames) * len(passwords)
	prog := progress.NewProgress(coll, total, f.quiet || f.verbose)
	prog.Printf("Starting %d login attempts against %s", total, cfg.URL)
	prog.Start()

	runErr := sched.Run(context.Background(), usernames, passwords)

	prog.Stop()
	coll.Close()

	if runErr != nil {
		return runErr
	}

	results := coll.Results()
	runReport := report.Run{
		Summary:  coll.Summary(),
		Pairs:    coll.SuccessfulPairs(),
		Latency:  coll.Latency(),
		Duration: coll.Duration(),
	}
	if f.format == "json" {
		report.FormatJSON(os.Stdout, runReport)
	} else {
		report.FormatText(os.Stdout, runReport)
	}

	// Persistence and history run after reporting: the user keeps the
	// console report even when saving fails.
	if f.saveHistory {
		if err := recordHistory(cfg, runReport); err != nil {
			return err
		}
	}

	if f.outputFile != "" {
		if err := output.Save(f.outputFile, results); err != nil {
			return err
		}
		if !f.quiet {
			fmt.Fprintf(os.Stderr, "Results saved to %s\n", f.outputFile)
		}
	}

	return nil
}

func recordHistory(cfg config.Config, run report.Run) error {
	path, err := history.DefaultPath()
	if err != nil {
		return fmt.Errorf("locating history database: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Save(history.Record{
		URL:         cfg.URL,
		Total:       run.Summary.Total,
		Succeeded:   run.Summary.Succeeded,
		Failed:      run.Summary.Failed,
		SuccessRate: run.Summary.SuccessRate,
		Duration:    run.Duration,
	})
	return err
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded run summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := history.DefaultPath()
			if err != nil {
				return fmt.Errorf("locating history database: %w", err)
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-20s  %-40s  %8s  %8s  %7s  %10s\n",
				"WHEN", "TARGET", "TOTAL", "HITS", "RATE", "DURATION")
			for _, rec := range records {
				fmt.Fprintf(w, "%-20s  %-40s  %8d  %8d  %6.1f%%  %10v\n",
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					rec.URL, rec.Total, rec.Succeeded,
					rec.SuccessRate*100, rec.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}
}
