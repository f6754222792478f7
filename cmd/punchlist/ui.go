package main

import (
	"errors"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/punchlist/internal/client"
	"github.com/sandeepkv93/punchlist/internal/logger"
	"github.com/sandeepkv93/punchlist/internal/update"
)

func uiCmd(load configLoader) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal client against a running task API",
		Long: `Open the terminal client. Logs go to log.file when set; otherwise they are
dropped so they do not draw over the screen.

Examples:
  punchlist ui
  punchlist ui --base-url http://tasks.local:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Client.BaseURL = baseURL
			}

			opts := logger.Options{
				Service: "punchlist-ui",
				Level:   cfg.Log.Level,
				Format:  cfg.Log.Format,
				File:    cfg.Log.File,
			}
			if strings.TrimSpace(cfg.Log.File) == "" {
				opts.Output = io.Discard
			}
			log, closeLog, err := logger.New(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			api, err := client.New(cfg.Client.BaseURL, cfg.Client.RequestTimeout)
			if err != nil {
				return err
			}

			m := update.NewModel(api,
				update.WithLogger(log),
				update.WithRequestTimeout(cfg.Client.RequestTimeout),
			)
			program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "task API base URL, overrides client.base_url")

	return cmd
}
