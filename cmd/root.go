package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/byrlab/byrbt-bot/bot"
	"github.com/byrlab/byrbt-bot/byrbt"
	"github.com/byrlab/byrbt-bot/config"
	"github.com/byrlab/byrbt-bot/torrents"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata stamped in by the linker.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "byrbt-bot",
	Short: "An interactive command-line client for the BYRBT tracker",
	Long: `byrbt-bot is an interactive shell for the BYRBT private tracker.
It logs in through an external captcha recognizer, browses and searches
the torrent listings, and hands downloaded torrents to a local torrent
client for seeding.`,
	PersistentPreRunE: initializeApp,
	RunE:              runBot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(updateCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	// The update command must work even when no config file exists yet.
	if cmd.Name() == "update" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg *config.Config) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	var writer io.Writer = os.Stderr
	if cfg.Logging.Format != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Logging.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	log := zerolog.New(writer).With().Timestamp().Logger()

	// The log file receives the raw JSON stream even when the console
	// output is pretty-printed.
	if cfg.Bot.LogDir != "" {
		rotator, err := logFileWriter(cfg.Bot.LogDir)
		if err != nil {
			log.Warn().Err(err).Msg("File logging disabled")
		} else {
			log = zerolog.New(io.MultiWriter(writer, rotator)).With().Timestamp().Logger()
		}
	}

	return log
}

func logFileWriter(dir string) (io.Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, "byrbt-bot.log"),
		MaxSize:    10,
		MaxBackups: 3,
	}, nil
}

func runBot(cmd *cobra.Command, args []string) error {
	solver := byrbt.NewCommandSolver(cfg.Bot.Captcha.Command, cfg.Bot.Captcha.Model, logger)

	site, err := byrbt.NewClient(cfg.Site.BaseURL, cfg.Account.Username, cfg.Account.Password, cfg.Bot.CookieDir, solver, logger)
	if err != nil {
		return fmt.Errorf("failed to create tracker client: %w", err)
	}

	torrentClient, err := torrents.New(cfg.Client, logger)
	if err != nil {
		return fmt.Errorf("failed to create torrent client: %w", err)
	}

	b, err := bot.New(cfg, site, torrentClient, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return b.Run(ctx)
}
