package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/punchlist/internal/storage"
)

func migrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the task schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create the tasks table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(load, func(repo *storage.SQLiteRepository, path string) error {
				if err := repo.Migrate(); err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", path)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Drop the tasks table and every task in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(load, func(repo *storage.SQLiteRepository, path string) error {
				if err := repo.Rollback(); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", path)
				return nil
			})
		},
	})

	return cmd
}

func withStore(load configLoader, fn func(*storage.SQLiteRepository, string) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	repo, err := storage.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo, cfg.Store.Path)
}
