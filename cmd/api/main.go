// Package main is the entry point for the sentiment service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/config"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/database"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
	log        *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sentiment-api",
	Short:         "Watchlist and news sentiment service",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "loading config:", err)
			return err
		}

		log, err = logger.Init(logger.Config{
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
			Output:   cfg.LogOutput,
			FilePath: cfg.LogFile,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "initializing logger:", err)
			return err
		}
		return nil
	},
	// The bare command serves HTTP.
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportErr(runServe(cmd.Context()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (environment variables take precedence)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pruneSessionsCmd)
	rootCmd.AddCommand(ingestCmd)
}

// reportErr logs err through the configured logger; cobra output is silenced.
func reportErr(err error) error {
	if err != nil && log != nil {
		log.Error("command failed", "error", err)
	}
	return err
}

func openDB() (*gorm.DB, error) {
	return database.Connect(database.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
		LogSQL:   cfg.DBLogSQL,
	})
}

// openMigratedDB connects and brings the schema up to date.
func openMigratedDB() (*gorm.DB, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
