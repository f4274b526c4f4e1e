package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	apiKey     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "cinegate",
	Short: "CLI client for the cinegate movie metadata gateway",
	Long: `cinegate - CLI client for the cinegate movie metadata gateway

Look up movies, search TMDB through the gateway, and perform
admin operations (client registration, cache maintenance).

Run 'cinegated' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8980", "Server URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", os.Getenv("CINEGATE_API_KEY"), "API key (admin or client)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cinegate {{.Version}}\n")
}

func main() {
	Execute()
}
