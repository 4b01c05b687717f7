package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/agentdeck/agentdeck/internal/cli.version=1.2.3"
	version = "0.4.1"
	logo    = "\n" +
		"                          _      _           _\n" +
		"   __ _  __ _  ___ _ __ | |_ __| | ___  ___| | __\n" +
		"  / _` |/ _` |/ _ \\ '_ \\| __/ _` |/ _ \\/ __| |/ /\n" +
		" | (_| | (_| |  __/ | | | || (_| |  __/ (__|   <\n" +
		"  \\__,_|\\__, |\\___|_| |_|\\__\\__,_|\\___|\\___|_|\\_\\\n" +
		"        |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "agentdeck",
	Short: "AgentDeck - AI agent dashboard",
	Long:  color.CyanString(logo) + "\nA single-tenant dashboard for managing AI agents, chat sessions, memory and tools.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
