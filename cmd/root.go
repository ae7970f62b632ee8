package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "imgconv",
	Short: "imgconv 🎨 - convert images between jpg, png, and webp",
	Long: "imgconv 🎨 is an interactive image converter. Run it bare for the " +
		"full-screen picker, or use the convert/batch subcommands for scripting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger, closeLogger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLogger()

		bridge := tui.NewDialogBridge()
		b := backend.NewNative(cfg,
			backend.WithFolderDialog(bridge),
			backend.WithLogger(logger),
		)

		program := tea.NewProgram(
			tui.NewModel(b, bridge, cfg),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		_, runErr := program.Run()
		b.Close()
		return runErr
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger returns the backend logger. The TUI owns the terminal, so log
// lines go to the file named by IMGCONV_LOG, or nowhere at all.
func newLogger(cfg config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	return logger, func() { _ = f.Close() }, nil
}

// newCLILogger is for the non-interactive subcommands: the log file still
// wins when configured, otherwise warnings and errors go to stderr.
func newCLILogger(cfg config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile != "" {
		return newLogger(cfg)
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	return logger, func() {}, nil
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
