package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/johnquangdev/meeting-coach/docs"
)

// @title           Meeting Coach API
// @version         1.0
// @description     Real-time meeting coaching over websocket, with meeting history and operational endpoints

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

var rootCmd = &cobra.Command{
	Use:           "meeting-coach <command>",
	Short:         "Real-time meeting coach server and tools",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
