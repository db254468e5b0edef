// Package cmd implements the Lumen player CLI commands
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-signage/lumen-player/internal/lumenctl/client"
	"github.com/lumen-signage/lumen-player/internal/lumenctl/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lumenctl",
	Short: "Lumen Signage player control tool",
	Long: `lumenctl talks to the local status API of a running Lumen player.
It shows what each canvas is playing, lists recent playback history,
validates manifest files, and forces manifest reloads.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lumenctl/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "player status API address")

	// Add commands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCanvasCmd())
	rootCmd.AddCommand(newSpansCmd())
	rootCmd.AddCommand(newReloadCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	// Allow command line flags to override config file
	if server, _ := rootCmd.PersistentFlags().GetString("server"); server != "" {
		cfg.Server = server
	}
}

// getClient creates an API client from the resolved configuration
func getClient() (*client.Client, error) {
	c, err := client.NewClient(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return c, nil
}
