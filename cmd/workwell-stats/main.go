// Command workwell-stats serves the WorkWell event log over MCP (stdio).
//
// Usage:
//
//	./workwell-stats                  # Start MCP server (stdio)
//	./workwell-stats --config FILE    # Use another runtime config file
//
// Environment:
//
//	WORKWELL_DATA_DIR  Directory holding workwell.db and preferences.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"workwell/internal/config"
	"workwell/internal/core/clock"
	"workwell/internal/statsserver"
	"workwell/internal/storage"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "Path to runtime configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	eventLog, err := storage.OpenEventLog(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer eventLog.Close()

	prefsStore := storage.NewPreferencesStoreAt(cfg.PreferencesPath())
	goal := func() int {
		prefs, err := prefsStore.Load()
		if err != nil {
			return 0
		}
		return prefs.DailyWaterGoalMl()
	}

	s := statsserver.NewServer(eventLog, clock.Real{}, goal)
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
