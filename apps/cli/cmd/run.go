package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/config"
	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
	"github.com/abdul-hamid-achik/goalcheck/packages/export/metrics"
	"github.com/abdul-hamid-achik/goalcheck/packages/notify"
	"github.com/abdul-hamid-achik/goalcheck/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the GoalForge API checks",
	Long: `Run the GoalForge API checks against a backend.

The suite registers a throwaway account, logs in, reads the profile, checks
that a bad login is rejected, then exercises category and goal CRUD. A failed
registration stops the run; every other failure is recorded and the run goes on.

Examples:
  goalcheck run
  goalcheck run --base-url http://localhost:8001
  goalcheck run --env-file .env.preview --output junit --output-file report.xml
  goalcheck run --output xlsx --output-file report.xlsx --cleanup
  goalcheck run --slack-webhook $SLACK_URL --notify-on recovery --watch
  goalcheck run --metrics-file /var/lib/node_exporter/textfile/goalcheck.prom
  goalcheck run --watch -v`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	runOpts   runSettings
	watchFlag bool
)

func init() {
	addSettingsFlags(runCmd, &runOpts)
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run the checks when the config or env file changes")
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envFile := stringSetting(cmd, "env-file", "GOALCHECK_ENV_FILE", runOpts.envFile)
	unexport, err := exportEnvFile(envFile)
	if err != nil {
		return err
	}
	defer func() { unexport() }()

	notifier := notify.NewManager(notify.NotifyFailure)
	code, err := runOnce(ctx, cmd, &runOpts, notifier)
	if err != nil {
		return err
	}
	if !watchFlag {
		return exitWith(code)
	}

	w := &watchLoop{
		cmd:      cmd,
		settings: &runOpts,
		envFile:  envFile,
		unexport: unexport,
		notifier: notifier,
		lastCode: code,
	}
	err = w.run(ctx)
	unexport = w.unexport
	return err
}

// runOnce loads the configuration, runs the suite once, writes the report and
// sends the chat notification when one is configured. It returns the suite's
// exit code.
func runOnce(ctx context.Context, cmd *cobra.Command, s *runSettings, notifier *notify.Manager) (int, error) {
	cfg, logger, err := s.load(cmd)
	if err != nil {
		return ExitConfigError, err
	}

	out := cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return ExitConfigError, fmt.Errorf("%w: cannot create output file: %v", config.ErrInvalid, err)
		}
		defer f.Close()
		out = f
	}

	formatter, err := output.New(cfg.Output, out, output.Options{
		Verbose: cfg.GetVerbose(),
		NoColor: cfg.GetNoColor(),
	})
	if err != nil {
		return ExitConfigError, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return ExitConfigError, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	rcfg := &runner.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        timeout,
		FollowRedirect: cfg.GetFollowRedirects(),
		MaxRedirects:   cfg.MaxRedirects,
		Insecure:       !cfg.GetValidateSSL(),
		Proxy:          cfg.Proxy,
		Headers:        cfg.Headers,
		RateLimit:      cfg.RateLimit,
		Cleanup:        cfg.GetCleanup(),
		User: runner.Credentials{
			Email:    cfg.User.Email,
			Password: cfg.User.Password,
			Name:     cfg.User.Name,
		},
		DefaultCategories: cfg.DefaultCategories,
		StrictSchema:      cfg.GetStrictSchema(),
		Logger:            logger,
	}
	if listener, ok := formatter.(runner.Listener); ok {
		rcfg.Listener = listener
	}

	formatter.FormatHeader(cfg.BaseURL)
	result := runner.NewRunner(rcfg).RunAll(ctx)
	formatter.FormatResult(result)

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(result.Duration); err != nil {
			return ExitOutputError, &ExitError{Code: ExitOutputError, Err: fmt.Errorf("error writing output: %w", err)}
		}
	}

	if cfg.MetricsFile != "" {
		exporter := metrics.NewPrometheusExporter(metrics.WithPrometheusFile(cfg.MetricsFile))
		if err := exporter.Export(metrics.FromRun(result)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
	}

	if notifier != nil && cfg.Notify.SlackWebhook != "" {
		notifyRun(ctx, cmd, cfg, notifier, result)
	}

	return result.ExitCode(), nil
}

// notifyRun posts the run summary. A failed notification never changes the
// exit code.
func notifyRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, notifier *notify.Manager, result *runner.RunResult) {
	on, err := notify.ParseNotifyOn(cfg.Notify.When)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return
	}

	var opts []notify.SlackOption
	if cfg.Notify.SlackChannel != "" {
		opts = append(opts, notify.WithSlackChannel(cfg.Notify.SlackChannel))
	}
	notifier.Configure(on, notify.NewSlackNotifier(cfg.Notify.SlackWebhook, opts...))

	if _, err := notifier.Notify(ctx, result); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
	}
}

// watchLoop re-runs the suite whenever the config file or env file changes.
type watchLoop struct {
	cmd      *cobra.Command
	settings *runSettings
	envFile  string
	unexport func()
	notifier *notify.Manager
	lastCode int
}

func (w *watchLoop) targets() map[string]bool {
	var paths []string
	if path := stringSetting(w.cmd, "config", "GOALCHECK_CONFIG", w.settings.configPath); path != "" {
		paths = append(paths, path)
	} else {
		paths = append(paths, config.ConfigFilenames...)
	}
	if w.envFile != "" {
		paths = append(paths, w.envFile)
	}

	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			targets[abs] = true
		}
	}
	return targets
}

func (w *watchLoop) run(ctx context.Context) error {
	stderr := w.cmd.ErrOrStderr()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := w.targets()
	watchedDirs := make(map[string]bool)
	for path := range targets {
		dir := filepath.Dir(path)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchedDirs[dir] = true
	}

	fmt.Fprintf(stderr, "\nWatching for changes... (press Ctrl+C to stop)\n")

	var (
		debounce <-chan time.Time
		changed  string
	)
	for {
		select {
		case <-ctx.Done():
			return exitWith(w.lastCode)

		case event, ok := <-watcher.Events:
			if !ok {
				return exitWith(w.lastCode)
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				changed = event.Name
				debounce = time.After(WatchDebounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return exitWith(w.lastCode)
			}
			fmt.Fprintf(stderr, "watcher error: %v\n", err)

		case <-debounce:
			debounce = nil
			fmt.Fprintf(stderr, "\nFile changed: %s\nRe-running checks...\n\n", changed)
			w.rerun(ctx)
			fmt.Fprintf(stderr, "\nWatching for changes... (press Ctrl+C to stop)\n")
		}
	}
}

func (w *watchLoop) rerun(ctx context.Context) {
	stderr := w.cmd.ErrOrStderr()

	w.unexport()
	unexport, err := exportEnvFile(w.envFile)
	w.unexport = unexport
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		w.lastCode = exitCodeFor(err)
		return
	}

	code, err := runOnce(ctx, w.cmd, w.settings, w.notifier)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		w.lastCode = exitCodeFor(err)
		return
	}
	w.lastCode = code
}
