package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"library/config"
)

// CLI represents the complete command structure for the library application
type CLI struct {
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`

	Serve ServeCmd `cmd:"" help:"Serve the catalog over HTTP"`
	Demo  DemoCmd  `cmd:"" help:"Run the borrowing walkthrough against a fresh catalog"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("library"),
		kong.Description("An in-memory library catalog: books, members and lending."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig(&cli)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	initLogging(cfg.LogLevel)

	if err := ctx.Run(cfg); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the viper configuration and applies CLI overrides on top.
func loadConfig(cli *CLI) (*config.Config, error) {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cli.LogLevel != "" {
		v.Set("log.level", cli.LogLevel)
	}

	return config.Load(v)
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
