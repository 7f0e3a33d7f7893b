package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/repository"
	"bookmarkd/internal/search"
	"bookmarkd/internal/service/collection"
	"bookmarkd/internal/storage"
)

var (
	// flags
	verbose bool

	// set up by PersistentPreRunE, released by closeAll
	logger  *slog.Logger
	store   *repository.Store
	svc     *collection.Services
	closers []func()
)

// execute runs cmd and releases whatever its pre-run opened, also when the
// pre-run or the command itself failed.
func execute(cmd *cobra.Command) error {
	defer closeAll()
	return cmd.Execute()
}

// closeAll runs the registered closers newest first and forgets them
func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

var RootCmd = cobra.Command{
	Use:          "bookmarkctl",
	Short:        "Operate on a bookmarkd database",
	Long:         "Operator commands for bookmarkd: delete or inspect collection trees and re-index stale links",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		level := slog.LevelInfo
		if verbose || cfg.Debug {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		store, err = repository.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		closers = append(closers, store.Close)

		var searchIndex services.SearchIndex = search.Disabled{}
		if cfg.SearchEnabled() {
			linkIndex, err := search.Open(cfg.SearchIndexPath, logger)
			if err != nil {
				return err
			}
			closers = append(closers, func() { linkIndex.Close() })
			searchIndex = linkIndex
		}

		svc = collection.SetupServices(store, storage.NewFromConfig(cfg, logger), searchIndex, logger)
		return nil
	},
}
