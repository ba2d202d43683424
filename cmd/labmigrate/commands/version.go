// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-17

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=v1.2.3".
var Version = "v0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the labmigrate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("labmigrate %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
