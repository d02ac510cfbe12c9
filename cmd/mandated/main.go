package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/saudapakka/saudapakka-mandate/internal/config"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database"
)

const (
	programName = "mandated"
	version     = "0.1.0"
)

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
	conf       config.Config
)

func commonRun() {
	logLevel := slog.LevelInfo
	addSource := false
	if globalFlags.debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	)
	slog.SetDefault(logger)
}

func openDatabase() (*gorm.DB, error) {
	if conf.Server.PostgresDsn != "" {
		return database.NewPostgres(conf.Server.PostgresDsn)
	}
	return database.NewSQLite(conf.Server.SQLitePath)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "SaudaPakka mandate service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonRun()
			var err error
			conf, err = config.Load(configFile)
			return err
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(sweepCommand())
	rootCmd.AddCommand(createUserCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
