// Package cmd contains all CLI commands for the deckforge tool.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avaldr/deckforge/internal/assets"
	"github.com/avaldr/deckforge/internal/cache"
	"github.com/avaldr/deckforge/internal/config"
	"github.com/avaldr/deckforge/internal/diffusion"
	"github.com/avaldr/deckforge/internal/prompt"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deckforge",
	Short: "AI asset pipeline for medieval card game art and animations",
	Long: `Deckforge generates card art and character animation sprite sheets
through a local diffusion server.

The pipeline:
  - Fits prompt fragments into the model's token ceiling by priority tier
  - Caches every generated artifact by request fingerprint
  - Assembles per-frame generations into horizontal sprite sheets
  - Falls back to deterministic placeholders when AI is disabled

Configuration is read from deckforge.yaml (or --config), with DECKFORGE_*
environment variables overriding file values.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./deckforge.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deckforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deckforge"))
		}
	}

	viper.SetEnvPrefix("DECKFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

// newLogger builds the CLI logger: human-readable console output, debug
// level under --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// pipeline bundles the wired asset pipeline for command handlers.
type pipeline struct {
	cfg   *config.Config
	orch  *assets.Orchestrator
	cache *cache.Cache
	log   zerolog.Logger
}

// newPipeline loads configuration and wires the orchestrator with its real
// collaborators.
func newPipeline() (*pipeline, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	log := newLogger()

	tables := prompt.DefaultTables()
	if cfg.Prompt.TablesPath != "" {
		if tables, err = prompt.LoadTables(cfg.Prompt.TablesPath); err != nil {
			return nil, err
		}
	}

	tok, err := prompt.NewBPETokenizer()
	if err != nil {
		return nil, err
	}
	opt := prompt.NewOptimizer(tok)

	store, err := cache.NewDiskStore(filepath.Join(cfg.Cache.Dir, "artifacts"))
	if err != nil {
		return nil, err
	}
	c, err := cache.Open(filepath.Join(cfg.Cache.Dir, "index.db"), store, cfg.Cache.MaxSizeBytes, log)
	if err != nil {
		return nil, err
	}

	gen := diffusion.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.TimeoutSeconds)*time.Second,
		cfg.Server.RequestsPerMinute,
		log,
	)

	return &pipeline{
		cfg:   cfg,
		orch:  assets.New(cfg, tables, opt, gen, c, log),
		cache: c,
		log:   log,
	}, nil
}

// Close releases the pipeline's resources.
func (p *pipeline) Close() error {
	return p.cache.Close()
}
