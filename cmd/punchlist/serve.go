package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/punchlist/internal/api"
	"github.com/sandeepkv93/punchlist/internal/storage"
)

func serveCmd(load configLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task API",
		Long: `Run the task API over the SQLite store, applying pending migrations first.

Examples:
  punchlist serve
  punchlist serve --addr :8080
  PUNCHLIST_STORE_PATH=/tmp/tasks.sqlite punchlist serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log, closeLog, err := newLogger(cfg, "punchlist-api")
			if err != nil {
				return err
			}
			defer closeLog()

			repo, err := storage.OpenSQLite(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.WithField("db", cfg.Store.Path).Info("store ready")

			gin.SetMode(gin.ReleaseMode)
			return api.NewServer(repo, log).Run(cmd.Context(), cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}
