package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thomasw/posterous/config"
	"github.com/thomasw/posterous/posterous"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *posterous.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "posterous",
	Short: "A command-line client for the Posterous API",
	Long: `posterous calls the methods of the Posterous API, pages through
posts, and prints the returned sites, posts, comments and tags as YAML.

Settings come from a config file, .env files and POSTEROUS_* environment
variables.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version and update commands.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = posterous.NewClient(cfg.Posterous.Host, cfg.Auth(), logger, cfg.ClientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create Posterous client: %w", err)
	}

	logger.Debug().
		Str("host", client.Host()).
		Str("auth", client.Auth().Kind().String()).
		Msg("Client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
