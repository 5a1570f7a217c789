package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export <output.csv>",
	Short: "Export attendance to a CSV file",
	Long: `Exports attendance records from the local cache to CSV, one row per
entry: Name, Roll Number, Timestamp.

Example:
  rollcall export week.csv --from 2026-08-21 --to 2026-08-28`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("from", "", "Start date YYYY-MM-DD (defaults to today)")
	exportCmd.Flags().String("to", "", "End date YYYY-MM-DD (defaults to today)")
}

func parseDateFlag(cmd *cobra.Command, name string, fallback time.Time) (time.Time, error) {
	value := mustGetString(cmd, name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s, use YYYY-MM-DD: %w", name, err)
	}
	return parsed, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	now := time.Now()
	from, err := parseDateFlag(cmd, "from", now)
	if err != nil {
		return err
	}
	to, err := parseDateFlag(cmd, "to", now)
	if err != nil {
		return err
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	days, err := store.Days(from, to)
	if err != nil {
		return fmt.Errorf("could not read attendance: %w", err)
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer out.Close()

	bar := progressbar.NewOptions(len(days),
		progressbar.OptionSetDescription("Exporting attendance"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("days"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	rows, err := store.ExportCSV(out, from, to, func(attendance.ExportProgress) {
		bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("\nWrote %d rows across %d days to %s\n", rows, len(days), args[0])
	return nil
}
