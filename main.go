package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/model"
	"sitecheck/storage"
	"sitecheck/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, both must be set:\n"+
			"  • SITECHECK_SERVER_URL\n"+
			"  • SITECHECK_DATA_DIR\n\n"+
			"Set the missing variable before launching sitecheck.",
			missingVar)

		errorModal := ui.NewErrorModal("Configuration Error", errorMsg)
		p := tea.NewProgram(errorModal, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Clean up old tmp dir in cache directory (crash recovery)
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup old temp directory: %v", err)
	}

	if err := config.CreateTempDir(); err != nil {
		fmt.Printf("Failed to create temp directory: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to cleanup temp directory on exit: %v", err)
		}
	}()

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		fmt.Printf("Failed to initialize API client: %v\n", err)
		os.Exit(1)
	}

	reports, err := storage.NewReportStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open report index: %v\n", err)
		os.Exit(1)
	}
	defer reports.Close()

	creds := config.NewCredentialStore(
		config.SecurityMethod(cfg.Security.Method),
		cfg.Security.SSHKeyPath,
	)
	if err := creds.Load(cfg.DataDir()); err != nil {
		// Stored credentials are a convenience; a broken file only
		// costs the user a manual login.
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: could not load stored credentials: %v", err)
		}
	}

	m := model.NewModel(cfg, client, reports, creds, Version, License)

	p := tea.NewProgram(
		ui.NewAppView(m),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running sitecheck: %v\n", err)
		os.Exit(1)
	}
}
