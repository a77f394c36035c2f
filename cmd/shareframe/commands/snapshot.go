package commands

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/shareframe/internal/capture"
	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
)

var (
	snapshotOutput string
	snapshotMaxDim int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture the configured frame region to a PNG file",
	Long: `Captures the screen content inside the configured frame geometry
and writes it as a PNG. This is what a capturer sees of the framed
region in sharing mode, useful for checking alignment without
starting a real screen share.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "output file (default snapshot_dir/shareframe-<timestamp>.png)")
	snapshotCmd.Flags().IntVar(&snapshotMaxDim, "max-dim", 0, "downscale so the longest side is at most this many pixels")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configMgr.Get()

	logger.Init(cfg.LogLevel, cfg.LogPretty)

	img, err := capture.NewGrabber().Grab(cfg.Frame.Geometry)
	if err != nil {
		return fmt.Errorf("failed to capture frame region: %w", err)
	}
	if snapshotMaxDim > 0 {
		img = capture.Scale(img, snapshotMaxDim)
	}

	output := snapshotOutput
	if output == "" {
		name := fmt.Sprintf("shareframe-%s.png", time.Now().Format("20060102-150405"))
		output = filepath.Join(cfg.SnapshotDir, name)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	fmt.Printf("Snapshot written to %s (%dx%d)\n", output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
