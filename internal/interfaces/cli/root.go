package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/config"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/client"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// Engine is the suggestion surface the commands drive.  *suggest.Service
// implements it.
type Engine interface {
	SuggestAll(ctx context.Context, in suggest.SuggestInput) (*suggest.SuggestResult, error)
	Select(ctx context.Context, in suggest.SelectInput) (*taxon.SelectionResult, error)
	Normalize(name string) string
}

// EngineBuilder constructs the Engine once config and logger are ready.
type EngineBuilder func(cfg *config.Config, logger logging.Logger) (Engine, error)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	BaseURL      string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Engine       Engine
	OutputFormat string
	NoColor      bool
	Timeout      time.Duration
}

// NewRootCommand creates the taxonsuggest root command with its global
// flags and subcommands.  A nil build uses DefaultEngine.
func NewRootCommand(build EngineBuilder) *cobra.Command {
	if build == nil {
		build = DefaultEngine
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "taxonsuggest",
		Short: "Taxon suggestion CLI for observation forms",
		Long: "taxonsuggest queries the taxonomy search service, arranges the matches into\n" +
			"a relevance-ordered hierarchy outline and finalizes picks with synonym\n" +
			"resolution, the same way the HTTP API does.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, build)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: FOBI_* environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", FormatText, "output format (text, table, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")
	pf.StringVar(&opts.BaseURL, "base-url", "", "taxonomy service base URL (overrides taxonomy.base_url)")

	cmd.AddCommand(
		newSuggestCmd(),
		newSelectCmd(),
		newNormalizeCmd(),
		newEventsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger and engine, then stores the
// CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, build EngineBuilder) error {
	switch opts.OutputFormat {
	case FormatText, FormatTable, FormatJSON:
	default:
		return errors.NewValidationError("output", fmt.Sprintf("unsupported output format %q", opts.OutputFormat))
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	engine, err := build(cfg, logger)
	if err != nil {
		return fmt.Errorf("engine initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Engine:       engine,
		OutputFormat: opts.OutputFormat,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		cfg.Taxonomy.BaseURL = opts.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// initLogger creates a logger configured for CLI usage (output to stderr).
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// DefaultEngine wires the taxonomy client into a single-session
// suggest.Service.
func DefaultEngine(cfg *config.Config, logger logging.Logger) (Engine, error) {
	c, err := client.NewClient(cfg.Taxonomy.BaseURL,
		client.WithAPIKey(cfg.Taxonomy.APIKey),
		client.WithTimeout(cfg.Taxonomy.Timeout),
		client.WithRetryMax(cfg.Taxonomy.RetryMax),
		client.WithUserAgent("taxonsuggest/"+Version),
		client.WithLogger(logging.NewPrintfAdapter(logger)),
	)
	if err != nil {
		return nil, err
	}
	taxa := c.Taxa()
	svc, err := suggest.NewService(suggest.ServiceConfig{
		Searcher:    taxa,
		Lookup:      taxa,
		Sessions:    suggest.NewSessionStore(suggest.StoreConfig{MaxSessions: 1}, logger, nil),
		Logger:      logger,
		PerPage:     cfg.Taxonomy.PerPage,
		MaxPages:    cfg.Taxonomy.MaxPages,
		DataSources: cfg.Taxonomy.DataSources,

		ResolveTimeout: cfg.Taxonomy.CallBudget(),
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.NewValidationError("context", "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.NewValidationError("context", "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext derives the per-command deadline from --timeout.
func (c *CLIContext) commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}

// Execute is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand(nil)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// writeJSON outputs data as indented JSON.
func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.  Application
// errors show their code.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	prefix := color.RedString("Error:")
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		prefix = color.RedString("Error [%s]:", code)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", prefix, err.Error())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Printing the version needs neither config nor engine.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taxonsuggest %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
