package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voiceorder",
	Short: "Voice ordering conversation service for restaurant phone lines",
	Long: `voiceorder runs the conversation flow behind a restaurant's phone ordering
line: it takes classified caller intents, walks the ordering dialogue, and
submits finished orders to the restaurant API.`,
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
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
