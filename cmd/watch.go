package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/classpulse/rollcall/internal/capture"
	"github.com/classpulse/rollcall/internal/config"
	"github.com/classpulse/rollcall/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the periodic attendance capture loop",
	Long: `Watch samples the snapshot directory on a fixed cadence, submits
frames to the recognizer when the throttle allows, and records recognized
students into the local attendance cache.

The sampling cadence is intentionally shorter than the submission floor;
surplus ticks are silently skipped.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("snapshots", "", "Snapshot directory (overrides ROLLCALL_SNAPSHOT_DIR)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if dir := mustGetString(cmd, "snapshots"); dir != "" {
		cfg.Capture.SnapshotDir = dir
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
	if client.Token() == "" {
		return errors.New("no persisted session, run 'rollcall login' first")
	}

	loop := capture.NewLoop(
		capture.NewThrottle(cfg.Capture.MinInterval),
		capture.NewDirSource(cfg.Capture.SnapshotDir, cfg.Capture.MaxFrameSize),
		client,
		store,
		notify.LogSink{},
		cfg.Capture.SamplePeriod,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping capture loop...")
		cancel()
	}()

	fmt.Printf("Watching %s every %s (submission floor %s)\n",
		cfg.Capture.SnapshotDir, cfg.Capture.SamplePeriod, cfg.Capture.MinInterval)
	fmt.Println("Press Ctrl+C to stop")

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("capture loop stopped: %w", err)
	}
	return nil
}
