package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"trovo/internal/backup"
	"trovo/internal/config"
	"trovo/internal/db"
	"trovo/internal/logging"
	"trovo/internal/service"
	"trovo/internal/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "trovo",
	Short: "Home inventory tracker with printable location codes",
	Long: `trovo tracks where your belongings and documents live: rooms hold
containers, containers hold spots, and every spot gets a short unique
code like CAM-ARM-C1 that you can print on a label and scan or type to
find out exactly what is stored where.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file (overrides DB_PATH)")
}

// app bundles everything a subcommand needs to run against the
// database. Close must be deferred.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	inventory *service.Inventory
	backups   *backup.Manager
	logger    *slog.Logger

	logCleanup func()
}

func openApp() (*app, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logger, logCleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logCleanup()
		return nil, err
	}

	rooms := store.NewRoomStore(database)
	containers := store.NewContainerStore(database)
	spots := store.NewSpotStore(database)
	items := store.NewItemStore(database)
	documents := store.NewDocumentStore(database)

	return &app{
		cfg:        cfg,
		db:         database,
		inventory:  service.NewInventory(rooms, containers, spots, items, documents, logger),
		backups:    backup.NewManager(database, rooms, containers, spots, items, documents, logger),
		logger:     logger,
		logCleanup: logCleanup,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
	a.logCleanup()
}
