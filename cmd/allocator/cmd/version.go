package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the allocator CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("allocator version %s\n", version)
		fmt.Println("A regime-driven portfolio allocation engine for crypto markets")
		fmt.Println("https://github.com/rustyeddy/allocator")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
