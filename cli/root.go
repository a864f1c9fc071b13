// Package cli wires the todo commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-remote/app"
	"todo-remote/config"
	"todo-remote/logging"
	"todo-remote/remote"
	"todo-remote/store"
	"todo-remote/tui"
)

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return ExitCode(err)
}

type globalFlags struct {
	configPath string
	baseURL    string
	logLevel   string
}

// session is the per-invocation state shared by subcommands.
type session struct {
	cfg    *config.Config
	logger *log.Logger
}

func (s *session) controller() *app.Controller {
	client := remote.NewClient(s.cfg.BaseURL,
		remote.WithTimeout(s.cfg.Timeout.Duration),
		remote.WithLogger(s.logger),
	)
	return app.NewController(client, app.WithLogger(s.logger))
}

func (s *session) themePreference() (*app.ThemePreference, error) {
	prefs, msg, err := store.OpenPrefs(s.cfg.PrefsFile)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	if msg != "" {
		s.logger.Warn(msg)
	}
	return app.NewThemePreference(prefs, s.logger), nil
}

var runTUI = func(ctx context.Context, s *session) error {
	logger, closer, err := logging.OpenFile(s.cfg.Log.File, logging.Options{Level: s.cfg.Log.Level, Format: s.cfg.Log.Format})
	if err != nil {
		return err
	}
	defer closer.Close()
	s.logger = logger

	theme, err := s.themePreference()
	if err != nil {
		return err
	}
	m := tui.NewModel(ctx, s.controller(), theme, tui.Options{
		PrefsPath: s.cfg.PrefsFile,
		Logger:    logger,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func NewRoot() *cobra.Command {
	flags := &globalFlags{}
	s := &session{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal to-do list backed by a REST server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if flags.baseURL != "" {
				cfg.BaseURL = flags.baseURL
			}
			if flags.logLevel != "" {
				cfg.Log.Level = flags.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			s.cfg = cfg
			s.logger = logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), s)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flags.baseURL, "base-url", "", "todo server URL (overrides config and TODO_BASE_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		tuiCmd(s),
		listCmd(s),
		addCmd(s),
		editCmd(s),
		doneCmd(s),
		rmCmd(s),
		themeCmd(s),
		serveCmd(s),
	)
	return root
}

func tuiCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), s)
		},
	}
}
