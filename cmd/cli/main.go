// Package main provides the logolist command-line tool.
// Uses Cobra for command parsing:
//
//	logolist-cli seed --category fintech
//	logolist-cli admin create-user --username alice --password s3cret
//	logolist-cli stats
//	logolist-cli export --dir ./storage/logos --limit 50
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands.
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "logolist-cli",
		Short:        "Logolist maintenance tools",
		SilenceUsage: true,
	}

	root.AddCommand(seedCmd(), adminCmd(), statsCmd(), exportCmd())
	return root
}

// env is what every command needs: config, a logger and an open store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load(os.Getenv("LOGOLIST_CONFIG_PATH"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Always development mode for the CLI: humans read this output.
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() {
	e.db.Close()
	_ = e.logger.Sync()
}
