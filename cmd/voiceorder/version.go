package main

import (
	"fmt"

	aloha "github.com/hamchowderr/ncr-aloha"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voiceorder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voiceorder version %s\n", aloha.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
