package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pricewish/tracker/config"
	"github.com/pricewish/tracker/internal/api"
	"github.com/pricewish/tracker/internal/persist"
	"github.com/pricewish/tracker/internal/session"
	"github.com/pricewish/tracker/internal/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger

	client *api.Client
	items  *store.ItemStore
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Tracker CLI - Price-tracking wishlist tool",
	Long: `A CLI tool for tracking product prices. Items are added by product URL or
by name with attributes, watched against a tracking rule, and alerted when
the price drops below the configured threshold.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}

	local, err := persist.NewFileStore(cfg.State.BasePath)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}
	if err := session.Init(local); err != nil {
		return fmt.Errorf("session initialization failed: %w", err)
	}

	client = api.NewClient(
		cfg.Client.BaseURL,
		session.ID(),
		api.WithTimeout(cfg.Client.Timeout),
		api.WithLogger(*logger),
	)

	items = store.New(client, local,
		store.WithLogger(*logger),
		store.WithDemoDefault(cfg.Demo.Default),
	)
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
