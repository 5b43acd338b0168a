package main

import (
	"fmt"
	"strings"

	"github.com/castlet/castlet"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of castlet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("castlet version %s\n", strings.TrimSpace(castlet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
