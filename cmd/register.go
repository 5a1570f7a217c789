package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/capture"
	"github.com/classpulse/rollcall/internal/config"
)

var registerCmd = &cobra.Command{
	Use:   "register <image>",
	Short: "Register a student's reference photo with the recognizer",
	Long: `Uploads a reference photo so the recognition service can build a face
encoding for the student. Requires a clear photo of a single face.

Example:
  rollcall register alice.jpg --name "Alice Novak" --roll 17`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "Student's display name (required)")
	registerCmd.Flags().String("roll", "", "Student's roll number (required)")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("roll")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	roll := mustGetString(cmd, "roll")
	cfg := config.Load()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read image: %w", err)
	}
	image, err := capture.PrepareFrame(raw, cfg.Capture.MaxFrameSize)
	if err != nil {
		return fmt.Errorf("could not prepare image: %w", err)
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	client, err := openClient(cfg, store)
	if err != nil {
		return err
	}

	if err := client.RegisterStudent(context.Background(), name, roll, image); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Registered %s (roll %s)\n", name, roll)
	return nil
}
