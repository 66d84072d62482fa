// Package cli implements staybookctl, a terminal client for the staybook API.
package cli

import (
	"fmt"
	"io"

	"staybook/internal/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// App carries what every command needs. A zero App is filled in from
// LoadConfig before the first command runs.
type App struct {
	APIURL string
	Store  session.Store
	Out    io.Writer
}

func New() *cobra.Command {
	return NewWith(&App{})
}

func NewWith(app *App) *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:           "staybookctl",
		Short:         "Manage staybook properties and users from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(apiURL)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL of the staybook server (default from config).")

	AddCommands(cmd, app)
	return cmd
}

func AddCommands(topLevel *cobra.Command, app *App) {
	addLogin(topLevel, app)
	addLogout(topLevel, app)
	addWhoami(topLevel, app)
	addProperties(topLevel, app)
	addSection(topLevel, app)
	addEdit(topLevel, app)
	addUsers(topLevel, app)
}

func (a *App) init(apiURL string) error {
	if a.Out == nil {
		a.Out = color.Output
	}
	if apiURL != "" {
		a.APIURL = apiURL
	}
	if a.Store != nil && a.APIURL != "" {
		return nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.APIURL == "" {
		a.APIURL = cfg.APIURL
	}
	if a.Store == nil {
		st, err := session.NewDiskStore(cfg.SessionDir)
		if err != nil {
			return err
		}
		a.Store = st
	}
	return nil
}

func (a *App) session() (*session.Session, error) {
	s, err := session.Current(a.Store)
	if err != nil {
		return nil, fmt.Errorf("%w: run `staybookctl login` first", err)
	}
	return s, nil
}
