package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/umezakip/portfolio/internal/trail"
)

var (
	renderWidth  int
	renderHeight int
	renderFrames int
	renderScale  float64
	renderOut    string
)

var trailCmd = &cobra.Command{
	Use:   "trail",
	Short: "Particle trail tools",
}

var trailRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a scripted pointer path to a PNG",
	Long: `Moves a pointer along a Lissajous figure for --frames frames, running the
same per-frame simulation the site streams, and writes the final frame.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if renderWidth <= 0 || renderHeight <= 0 || renderFrames <= 0 {
			return errors.New("width, height and frames must be positive")
		}

		bar := progressbar.NewOptions(renderFrames,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Rendering trail"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		canvas := trail.NewCanvas(renderWidth, renderHeight, renderScale)
		tr := trail.Replay(trail.DefaultConfig(), canvas, trail.Lissajous(renderWidth, renderHeight, renderFrames),
			func(uint64) { _ = bar.Add(1) })
		_ = bar.Finish()

		f, err := os.Create(renderOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", renderOut, err)
		}
		if err := canvas.EncodePNG(f); err != nil {
			f.Close()
			return fmt.Errorf("encoding frame: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames, %d points)\n", renderOut, tr.Frame(), tr.Len())
		return nil
	},
}

func init() {
	f := trailRenderCmd.Flags()
	f.IntVar(&renderWidth, "width", 1280, "viewport width")
	f.IntVar(&renderHeight, "height", 720, "viewport height")
	f.IntVar(&renderFrames, "frames", 240, "frames to simulate")
	f.Float64Var(&renderScale, "scale", 1, "render scale (0,1]")
	f.StringVarP(&renderOut, "out", "o", "trail.png", "output file")

	trailCmd.AddCommand(trailRenderCmd)
	rootCmd.AddCommand(trailCmd)
}
