package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/config"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <roll-number>",
	Short: "Delete today's attendance for one student",
	Long: `Deletes a student's attendance record for today. The remote service is
asked first; the local cache is only updated after the server confirms, so
the two never diverge.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	rollNumber := args[0]
	cfg := config.Load()

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
	removed, err := reconciler.DeleteAttendance(context.Background(), rollNumber)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted attendance for roll %s (%d local entries removed)\n", rollNumber, removed)
	return nil
}
