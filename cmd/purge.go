package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/config"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop attendance partitions older than the retention window",
	Long: `Deletes whole day partitions older than the retention window from the
local cache. Purging is local only; the recognition service keeps its own
history.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().Int("days", 0, "Retention window in days (defaults to configured retention)")
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	days := mustGetInt(cmd, "days")
	if days <= 0 {
		days = cfg.Store.RetentionDays
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	removed, err := store.PurgeOlderThan(days)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	fmt.Printf("Removed %d day partitions older than %d days\n", removed, days)
	return nil
}
