package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ AgentDeck Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 AgentDeck Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		configPath, err := config.ConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Println("Config:  ✓ Found (" + configPath + ")")
			} else {
				fmt.Println("Config:  ✗ Not found (defaults in effect)")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config:  ✗ Unable to load (%v)\n", err)
			return
		}
		if _, err := os.Stat(cfg.Paths.DataDir); err == nil {
			fmt.Println("Data:    ✓ Found (" + cfg.Paths.DataDir + ")")
		} else {
			fmt.Println("Data:    ✗ Not found (created on first serve)")
		}

		// Ping the running server, if any
		client := &http.Client{Timeout: 2 * time.Second}
		url := fmt.Sprintf("http://%s:%d/api/status", cfg.Server.Host, cfg.Server.Port)
		resp, err := client.Get(url)
		if err != nil {
			fmt.Println("Server:  ✗ Not running (" + url + ")")
			return
		}
		defer resp.Body.Close()

		var env struct {
			Success bool `json:"success"`
			Data    struct {
				Version string `json:"version"`
				Uptime  string `json:"uptime"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || !env.Success {
			fmt.Println("Server:  ? Unexpected response")
			return
		}
		fmt.Printf("Server:  ✓ Running (version %s, up %s)\n", env.Data.Version, env.Data.Uptime)
	},
}
