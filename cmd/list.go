package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show today's attendance",
	Long:  `Lists today's recognized students from the local cache, most recent first.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	entries, err := store.ListToday()
	if err != nil {
		return fmt.Errorf("could not read attendance: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No attendance recorded today.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tNAME\tROLL\tCONFIDENCE\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			e.Timestamp.Format("15:04:05"), e.Name, e.RollNumber, e.Confidence, e.Status)
	}
	return w.Flush()
}
