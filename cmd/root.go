package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "segue",
	Short: "Segue translates and analyzes DJ playlist libraries.",
	Long: `Segue converts DJ library files between Rekordbox XML, Serato CSV,
Traktor NML and M3U, and serves an analysis API over imported libraries.`,
}

// Execute executes the root command.
func Execute() {
	// .env values never override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
