// Package main is the entry point for the gatewatch TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/app"
	"github.com/dverley/gatewatch/internal/config"
	"github.com/dverley/gatewatch/internal/services"
	"github.com/dverley/gatewatch/internal/ui/tabs/anomalies"
	"github.com/dverley/gatewatch/internal/ui/tabs/heatmap"
	"github.com/dverley/gatewatch/internal/ui/tabs/info"
	"github.com/dverley/gatewatch/internal/ui/tabs/overview"
	"github.com/dverley/gatewatch/internal/ui/tabs/top"
	"github.com/dverley/gatewatch/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Starts health polling and config watching in the background
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Each tab shares the application state and command factories
	state := model.GetState()
	commands := model.GetCommands()
	tabs := []app.Tab{
		overview.New(state, commands),
		top.New(state, commands),
		heatmap.New(state, commands),
		anomalies.New(state, commands),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`gatewatch - terminal dashboard for API gateway traffic analytics

Usage:
  gatewatch [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-5             Switch between tabs (Overview, Top, Heatmap, Anomalies, Info)
  Tab/Shift+Tab   Navigate between tabs
  t               Cycle time range preset
  d / m           Cycle leaderboard dimension / metric
  [ / ]           Cycle anomaly rule
  Enter / Esc     Open / close anomaly record detail
  e               Export current view as CSV
  j/k, Up/Down    Navigate lists
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL             Metrics backend root (default: http://localhost:8080/api)
  REQUEST_TIMEOUT          Per-request timeout (default: 30s)
  HEALTH_POLL_INTERVAL     Backend health probe interval (default: 30s)
  SERIES_REFRESH_INTERVAL  Overview auto-refresh period (default: 30s)
  EXPORT_DIR               Directory for CSV exports (default: ~/Downloads)
  GATEWATCH_LOG            Log file path (logging is off otherwise)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/gatewatch/.env
  - ~/.gatewatch/.env

The .env file is watched; edits apply without restarting.`)
}
