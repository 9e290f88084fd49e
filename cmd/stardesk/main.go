package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "stardesk",
	Short: "STARDESK - entertainment news desk console",
	Long: `STARDESK is the backend for a browser-based entertainment news console.
It runs AI-assisted editorial checks (fact check, style, tags, sensitivity)
against configurable LLM providers and manages the article lifecycle.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
