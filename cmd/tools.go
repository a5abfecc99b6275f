package cmd

import (
	"fmt"

	cobra "github.com/spf13/cobra"

	browser "github.com/dodocode/screenpilot/internal/browser"
	display "github.com/dodocode/screenpilot/internal/display"
	tools "github.com/dodocode/screenpilot/internal/services/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalogs the agent can use",
	Run: func(cmd *cobra.Command, args []string) {
		client := newDecisionClient()

		fmt.Println("Desktop tools:")
		provider, err := display.DetectDisplay()
		if err != nil {
			fmt.Printf("  (unavailable: %v)\n", err)
		} else {
			registry, screen := tools.NewDesktopRegistry(cfg, provider, client)
			defer func() { _ = screen.Close() }()
			printCatalog(registry)
		}

		fmt.Println("\nBrowser tools:")
		screen := tools.NewScreen(nil, cfg)
		driver := browser.NewDriver(browser.Options{})
		printCatalog(tools.NewBrowserRegistry(cfg, driver, client, screen))
	},
}

func printCatalog(registry *tools.Registry) {
	for _, def := range registry.ListTools() {
		description := ""
		if def.Function.Description != nil {
			description = *def.Function.Description
		}
		fmt.Printf("  %-30s %s\n", def.Function.Name, description)
	}
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
