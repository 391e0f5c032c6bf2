package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/db"
	"github.com/abdul-hamid-achik/goalcheck/packages/logging"
	"github.com/abdul-hamid-achik/goalcheck/packages/mock"
	"github.com/spf13/cobra"
)

var (
	mockPortFlag    int
	mockDBFlag      string
	mockDelayFlag   string
	mockVerboseFlag bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve the GoalForge reference backend",
	Long: `Start a local GoalForge backend implementing every endpoint the checks use.

The backend:
- Stores users, sessions, categories and goals in SQLite
- Seeds the default categories for every registered account
- Reports per-category progress from the goals it holds
- Can add artificial delays to simulate network latency

Examples:
  goalcheck mock
  goalcheck mock --port 9000 --delay 100ms
  goalcheck mock --db sqlite://goalforge.db --verbose`,
	Args: usageArgs(cobra.NoArgs),
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", getEnvInt("GOALCHECK_MOCK_PORT", 8001), "Port to run the backend on (env: GOALCHECK_MOCK_PORT)")
	mockCmd.Flags().StringVar(&mockDBFlag, "db", getEnvString("GOALCHECK_MOCK_DB", "sqlite::memory:"), "Database connection string, sqlite://path or sqlite::memory: (env: GOALCHECK_MOCK_DB)")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Log every request")
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return usageError(fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err))
		}
	}

	level := "info"
	if mockVerboseFlag {
		level = "debug"
	}
	logger, err := logging.New(level, "text", cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, mockDBFlag)
	if err != nil {
		return usageError(fmt.Errorf("failed to open database: %w", err))
	}
	defer store.Close()

	server := mock.NewServer(store,
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithLogger(logger),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "GoalForge reference backend: %d routes on http://localhost:%d/api\n", len(server.Routes()), mockPortFlag)
	if mockVerboseFlag {
		for _, route := range server.Routes() {
			fmt.Fprintf(out, "  %-6s %s\n", route.Method, route.PathPattern)
		}
	}
	fmt.Fprintf(out, "Run the checks with: goalcheck run --base-url http://localhost:%d\n", mockPortFlag)

	return server.StartWithContext(ctx)
}
