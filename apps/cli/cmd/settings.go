package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/config"
	"github.com/abdul-hamid-achik/goalcheck/packages/core/env"
	"github.com/abdul-hamid-achik/goalcheck/packages/logging"
	"github.com/spf13/cobra"
)

// runSettings holds the flags shared by run and validate.
type runSettings struct {
	configPath string
	envFile    string
	baseURL    string
	timeout    string
	email      string
	password   string
	name       string
	output     string
	outputFile string
	metrics    string
	proxy      string
	rate       float64
	logLevel   string
	logFormat  string
	verbose    bool
	noColor    bool
	insecure   bool
	cleanup    bool
	strict     bool

	slackWebhook string
	slackChannel string
	notifyOn     string
}

func addSettingsFlags(cmd *cobra.Command, s *runSettings) {
	f := cmd.Flags()

	f.StringVarP(&s.configPath, "config", "c", "", "Path to config file (env: GOALCHECK_CONFIG)")
	f.StringVar(&s.envFile, "env-file", "", "Path to .env file exported before the run (env: GOALCHECK_ENV_FILE)")

	// Target
	f.StringVarP(&s.baseURL, "base-url", "u", "", "Backend base URL, without /api (env: GOALCHECK_BASE_URL)")
	f.StringVar(&s.timeout, "timeout", "", "Per-request timeout, e.g. 10s (env: GOALCHECK_TIMEOUT)")
	f.StringVar(&s.proxy, "proxy", "", "Proxy URL for HTTP requests (env: GOALCHECK_PROXY)")
	f.BoolVarP(&s.insecure, "insecure", "k", false, "Disable SSL certificate validation (env: GOALCHECK_INSECURE)")
	f.Float64Var(&s.rate, "rate", 0, "Maximum requests per second, 0 for unpaced (env: GOALCHECK_RATE)")

	// Account
	f.StringVar(&s.email, "email", "", "Email of the account to register (env: GOALCHECK_EMAIL)")
	f.StringVar(&s.password, "password", "", "Password of the account to register (env: GOALCHECK_PASSWORD)")
	f.StringVar(&s.name, "name", "", "Display name of the account to register (env: GOALCHECK_NAME)")
	f.BoolVar(&s.cleanup, "cleanup", false, "Delete categories and goals left behind by failed checks (env: GOALCHECK_CLEANUP)")
	f.BoolVar(&s.strict, "strict-schema", false, "Also validate category and goal lists against JSON schemas (env: GOALCHECK_STRICT_SCHEMA)")

	// Output
	f.StringVarP(&s.output, "output", "o", "", "Output format: console, json, junit, tap, xlsx (env: GOALCHECK_OUTPUT)")
	f.StringVar(&s.outputFile, "output-file", "", "Write output to file (default: stdout) (env: GOALCHECK_OUTPUT_FILE)")
	f.StringVar(&s.metrics, "metrics-file", "", "Write Prometheus metrics of the run to file (env: GOALCHECK_METRICS_FILE)")
	f.BoolVarP(&s.verbose, "verbose", "v", false, "Show curl reproductions of failed checks (env: GOALCHECK_VERBOSE)")
	f.BoolVar(&s.noColor, "no-color", false, "Disable colored output (env: GOALCHECK_NO_COLOR)")
	f.StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn, error (env: GOALCHECK_LOG_LEVEL)")
	f.StringVar(&s.logFormat, "log-format", "", "Log format: text, json (env: GOALCHECK_LOG_FORMAT)")

	// Notifications
	f.StringVar(&s.slackWebhook, "slack-webhook", "", "Slack incoming webhook URL for run summaries (env: GOALCHECK_SLACK_WEBHOOK)")
	f.StringVar(&s.slackChannel, "slack-channel", "", "Slack channel override (env: GOALCHECK_SLACK_CHANNEL)")
	f.StringVar(&s.notifyOn, "notify-on", "", "When to notify: always, failure, success, recovery (env: GOALCHECK_NOTIFY_ON)")
}

// Environment variable helpers. A flag given on the command line wins over
// its environment variable.
func stringSetting(cmd *cobra.Command, flag, key, value string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return os.Getenv(key)
}

func boolSetting(cmd *cobra.Command, flag, key string, value bool) *bool {
	if cmd.Flags().Changed(flag) {
		return config.BoolPtr(value)
	}
	if val := os.Getenv(key); val != "" {
		return config.BoolPtr(isTrue(val))
	}
	return nil
}

func floatSetting(cmd *cobra.Command, flag, key string, value float64) (float64, error) {
	if cmd.Flags().Changed(flag) {
		return value, nil
	}
	val := os.Getenv(key)
	if val == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", config.ErrInvalid, key, err)
	}
	return f, nil
}

func isTrue(val string) bool {
	return val == "true" || val == "1" || val == "yes"
}

// overrides collects the settings given as flags or environment variables.
func (s *runSettings) overrides(cmd *cobra.Command) (*config.Config, error) {
	rate, err := floatSetting(cmd, "rate", "GOALCHECK_RATE", s.rate)
	if err != nil {
		return nil, err
	}

	o := &config.Config{
		BaseURL:      stringSetting(cmd, "base-url", "GOALCHECK_BASE_URL", s.baseURL),
		Timeout:      stringSetting(cmd, "timeout", "GOALCHECK_TIMEOUT", s.timeout),
		Proxy:        stringSetting(cmd, "proxy", "GOALCHECK_PROXY", s.proxy),
		RateLimit:    rate,
		Cleanup:      boolSetting(cmd, "cleanup", "GOALCHECK_CLEANUP", s.cleanup),
		StrictSchema: boolSetting(cmd, "strict-schema", "GOALCHECK_STRICT_SCHEMA", s.strict),
		Output:       stringSetting(cmd, "output", "GOALCHECK_OUTPUT", s.output),
		OutputFile:   stringSetting(cmd, "output-file", "GOALCHECK_OUTPUT_FILE", s.outputFile),
		MetricsFile:  stringSetting(cmd, "metrics-file", "GOALCHECK_METRICS_FILE", s.metrics),
		Verbose:      boolSetting(cmd, "verbose", "GOALCHECK_VERBOSE", s.verbose),
		NoColor:      boolSetting(cmd, "no-color", "GOALCHECK_NO_COLOR", s.noColor),
		LogLevel:     stringSetting(cmd, "log-level", "GOALCHECK_LOG_LEVEL", s.logLevel),
		LogFormat:    stringSetting(cmd, "log-format", "GOALCHECK_LOG_FORMAT", s.logFormat),
		User: config.User{
			Email:    stringSetting(cmd, "email", "GOALCHECK_EMAIL", s.email),
			Password: stringSetting(cmd, "password", "GOALCHECK_PASSWORD", s.password),
			Name:     stringSetting(cmd, "name", "GOALCHECK_NAME", s.name),
		},
		Notify: config.Notify{
			SlackWebhook: stringSetting(cmd, "slack-webhook", "GOALCHECK_SLACK_WEBHOOK", s.slackWebhook),
			SlackChannel: stringSetting(cmd, "slack-channel", "GOALCHECK_SLACK_CHANNEL", s.slackChannel),
			When:         stringSetting(cmd, "notify-on", "GOALCHECK_NOTIFY_ON", s.notifyOn),
		},
	}
	if insecure := boolSetting(cmd, "insecure", "GOALCHECK_INSECURE", s.insecure); insecure != nil {
		o.ValidateSSL = config.BoolPtr(!*insecure)
	}
	return o, nil
}

// configFile returns the config file a run would read, or "" for defaults.
func (s *runSettings) configFile(cmd *cobra.Command) string {
	if path := stringSetting(cmd, "config", "GOALCHECK_CONFIG", s.configPath); path != "" {
		return path
	}
	return config.FindConfigFile(".")
}

// load merges the config file with flag and environment overrides, resolves
// {{...}} references and validates the result.
func (s *runSettings) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	fileConfig, err := config.LoadConfig(stringSetting(cmd, "config", "GOALCHECK_CONFIG", s.configPath))
	if err != nil {
		return nil, nil, err
	}

	o, err := s.overrides(cmd)
	if err != nil {
		return nil, nil, err
	}
	merged := fileConfig.Merge(o)

	logger, err := logging.New(merged.LogLevel, merged.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	resolver := env.NewResolver()
	resolver.SetWarnFunc(func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	})

	resolved := merged.Resolve(resolver)
	if err := resolved.Validate(); err != nil {
		return nil, nil, err
	}
	return resolved, logger, nil
}

// exportEnvFile exports the pairs of path that are not already set and
// returns a function that unsets them again.
func exportEnvFile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	exported, err := env.LoadAndExportDotEnv(path)
	unexport := func() {
		for k := range exported {
			_ = os.Unsetenv(k)
		}
	}
	if err != nil {
		unexport()
		return func() {}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return unexport, nil
}
