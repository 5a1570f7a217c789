package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/config"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all of today's attendance",
	Long: `Removes every attendance record for today, on the server first and
then locally. Earlier days are untouched.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if !mustGetBool(cmd, "yes") {
		fmt.Print("Clear all of today's attendance? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
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

	reconciler := attendance.NewReconciler(client, store)
	removed, err := reconciler.ClearToday(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Cleared %d attendance records for today\n", removed)
	return nil
}
