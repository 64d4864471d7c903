package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/config"
	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/tracing"
	"github.com/zjrosen/musichub/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

// env is what the persistent pre-run prepares for every command that talks
// to the backend.
type env struct {
	cfg        config.Config
	configPath string // file the config was read from, if any
	client     *client.Client
	provider   *tracing.Provider
	closers    []func()
}

// closing wraps a RunE so the env is released however it returns. Cobra
// skips post-run hooks after an error, which would leave spans unflushed.
func (e *env) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		return run(cmd, args)
	}
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "musichub",
		Short: "A terminal client for ISRC track registration",
		Long: `A terminal user interface for registering tracks by ISRC and following
their validation status.

Without a subcommand the interactive UI starts. The subcommands run the same
operations non-interactively.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, cfgFile)
		},
		RunE: e.closing(func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, e)
		}),
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .musichub/config.yaml, then ~/.config/musichub/config.yaml)")
	flags.String("api-url", "", "base URL of the registration backend")
	flags.Bool("debug", false, "write debug logs and enable the log panel (ctrl+x)")
	flags.String("log-file", "", "debug log path (default: "+config.DefaultLogFile+")")

	rootCmd.AddCommand(
		newValidateCmd(),
		newRegisterCmd(e),
		newRecentCmd(e),
		newConfigCmd(&cfgFile),
	)
	return rootCmd
}

// setup loads configuration and starts logging, tracing and the theme. On
// failure whatever was already started is released.
func (e *env) setup(cmd *cobra.Command, cfgFile string) (err error) {
	defer func() {
		if err != nil {
			e.close()
		}
	}()

	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.configPath = v.ConfigFileUsed()

	if cfg.Debug {
		path := cfg.LogFile
		if path == "" {
			path = config.DefaultLogFile
		}
		cleanup, err := log.Init(path, "musichub")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		e.closers = append(e.closers, func() {
			cleanup()
			log.Reset()
		})
		log.Info(log.CatConfig, "Debug logging enabled", "version", version, "config", v.ConfigFileUsed())
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	e.provider = provider
	e.closers = append(e.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	})

	if err := applyTheme(cfg); err != nil {
		return err
	}

	opts := []client.Option{
		client.WithTimeout(cfg.API.Timeout),
		client.WithRegisterPath(cfg.API.RegisterPath),
		client.WithRecentPath(cfg.API.RecentPath),
	}
	if provider.Enabled() {
		opts = append(opts, client.WithTracer(provider.Tracer()))
	}
	e.client = client.New(cfg.API.BaseURL, opts...)
	return nil
}

func applyTheme(cfg config.Config) error {
	err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	})
	if err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
