// Package cli implements the regionmap command line: catalog queries, map
// rendering, point lookups and schema migrations against the same backend
// the API server runs.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/turtacn/regionmap/internal/bootstrap"
	"github.com/turtacn/regionmap/internal/config"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	Format     string
	Verbose    bool
	Timeout    time.Duration
}

// CLIContext carries the loaded configuration through the command tree.  The
// backend is built on first use so that commands like version and migrate
// never touch the map sources.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	Format  string
	Timeout time.Duration

	app *bootstrap.App
}

// App builds and warms the backend once per invocation.
func (c *CLIContext) App(ctx context.Context) (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	infra, err := bootstrap.NewInfrastructure(ctx, c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(infra)
	if err != nil {
		infra.Close()
		return nil, err
	}
	if err := app.Warm(ctx); err != nil {
		c.Logger.Warn("backend started with incomplete data", logging.Err(err))
	}
	c.app = app
	return app, nil
}

// Close releases the backend if it was built.
func (c *CLIContext) Close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
	_ = c.Logger.Sync()
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "regionmap",
		Short:   "Region map of representatives",
		Long:    "regionmap queries the region catalog and the representative snapshot,\nrenders the region map and manages the representative database.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliCtx, err := GetCLIContext(cmd); err == nil {
				cliCtx.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (environment only when empty)")
	pf.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file merged into the environment")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.Format, "format", "f", FormatTable, "output format (table, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "global operation timeout")

	cmd.AddCommand(
		newRegionsCmd(),
		newLookupCmd(),
		newContactsCmd(),
		newStatsCmd(),
		newRenderCmd(),
		newLocateCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.Format) {
	case FormatTable, FormatJSON:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q", opts.Format))
	}

	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:  cfg,
		Logger:  logger,
		Format:  strings.ToLower(opts.Format),
		Timeout: opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initLogger writes console logs to stderr so stdout stays parseable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext stored by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds the command by --timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return 1
	}
	return 0
}

// tabular is implemented by results that have a table rendering.
type tabular interface {
	TableHeaders() table.Row
	TableRows() []table.Row
}

// PrintResult writes data as JSON or as a table.  Values without a table
// rendering are printed as JSON either way.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := FormatJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.Format
	}

	if t, ok := data.(tabular); ok && format == FormatTable {
		w := table.NewWriter()
		w.SetOutputMirror(cmd.OutOrStdout())
		w.SetStyle(table.StyleLight)
		w.AppendHeader(t.TableHeaders())
		w.AppendRows(t.TableRows())
		w.Render()
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes err to stderr.  Application errors show their code.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if ae.Detail != "" {
			msg += ": " + ae.Detail
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ae.Code, msg)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// PrintSuccess writes a confirmation line to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", msg)
}

//Personal.AI order the ending
