package cmd

import (
	"fmt"
	"os"

	cobra "github.com/spf13/cobra"

	config "github.com/dodocode/screenpilot/config"
	logger "github.com/dodocode/screenpilot/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Screen and browser automation agent",
	Long: `pilot drives a desktop or a browser through an LLM behind an inference
gateway. The agent sees the screen through numbered-grid captures, acts
through mouse and keyboard tools, and reports back when the task is done
or it needs your input.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use 'pilot run \"<task>\"' to automate the desktop or 'pilot browse \"<task>\"' for a browser task.")
		fmt.Println("See --help for all commands.")
	},
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	logger.Init(verbose)

	override, _ := rootCmd.PersistentFlags().GetString("config")
	configPath := config.GetConfigPath(override)

	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config from %s: %v\n", configPath, err)
		os.Exit(1)
	}
	cfg = loaded
}
