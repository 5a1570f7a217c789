package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Face recognition attendance from periodic webcam snapshots",
	Long: `Rollcall captures periodic snapshots, submits them to a remote face
recognition service, and keeps a durable per-day attendance record on this
machine. The local record survives restarts and tolerates an unreliable
link to the recognizer.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
