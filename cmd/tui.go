package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/config"
	"github.com/theirongolddev/balancebuddy/internal/logger"
	"github.com/theirongolddev/balancebuddy/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Console logs would tear through the alt screen.
	closeLog := redirectLog(filepath.Join(cfg.DataDir(), "tui.log"))
	defer closeLog()

	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	app := tui.NewApp(tui.Options{
		Engine:     eng,
		Pipeline:   cfg.PipelineOptions(),
		Currency:   cfg.General.Currency,
		Categories: cfg.CategoryChoices(),
		Theme:      cfg.Appearance.Theme,
		OnOnboarded: func(currency, themeName string) error {
			cfg.General.Currency = currency
			cfg.Appearance.Theme = themeName
			return config.Save(cfg)
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLog points the logger at a file for the lifetime of the TUI,
// discarding output if the file cannot be opened.
func redirectLog(path string) func() {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log = zerolog.Nop()
		return func() {}
	}
	//nolint:gosec // log path lives in the user's data directory
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		log = zerolog.Nop()
		return func() {}
	}
	log = logger.NewWithWriter(f, log.GetLevel())
	return func() { _ = f.Close() }
}
