package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/vantage/pkg/config"
)

// app is the state shared by every command.
type app struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    *config.Config
	logger *slog.Logger
	level  slog.Level
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "vantage",
		Short:         "Fly a camera through glTF scenes in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (.toml, .yaml)")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to a file instead of stderr")

	root.AddCommand(
		newViewCmd(a),
		newPoseCmd(a),
		newCullCmd(a),
		newSnapshotCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if err := a.level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = os.Stderr
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closer = f
		w = f
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: a.level}))
	slog.SetDefault(a.logger)

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger.Debug("config loaded", "path", a.configPath, "controller", cfg.Controller)
	}
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// uiLogger returns the logger to use while the terminal UI owns the
// screen. Without a log file, logging is dropped.
func (a *app) uiLogger() *slog.Logger {
	if a.logFile == "" {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check config files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			a.logger.Info("config written", "path", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	checkCmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (controller %s)\n", args[0], cfg.Controller)
			return nil
		},
	}

	cmd.AddCommand(initCmd, checkCmd)
	return cmd
}
