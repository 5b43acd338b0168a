package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "castlet",
	Short: "Castlet negotiates presentation sessions to second displays",
	Long: `Castlet gives applications a single session abstraction for projecting
content onto a second display, negotiating between a native cast
transport and a plain window transport behind the scenes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the castlet config file (YAML)")
}
