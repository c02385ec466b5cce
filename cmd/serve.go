package cmd

import (
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Segue web server",
	Long:  `Start the HTTP API and the WebSocket event feed.`,
	Run: func(cmd *cobra.Command, args []string) {
		StartWebServer(servePort)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides SEGUE_PORT)")
	rootCmd.AddCommand(serveCmd)
}
