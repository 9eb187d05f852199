package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-demoreel/internal/pipeline"
	"github.com/wethinkt/go-demoreel/internal/preview"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// preview command flags
var (
	previewFrame    int
	previewProtocol string
	previewWidth    int
	previewDPI      float64
)

// cellWidthPx approximates one terminal column in pixels.
const cellWidthPx = 8

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show one frame inline in the terminal",
	Long: `Render one frame and display it inline using the kitty or sixel
graphics protocol. Negative frame numbers count from the end.

Examples:
  demoreel preview                 # last frame of the default scenario
  demoreel preview --frame 0       # first frame
  demoreel preview -s dcf-web -f 120 --protocol sixel`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	addScenarioFlags(previewCmd)
	previewCmd.Flags().IntVarP(&previewFrame, "frame", "f", -1, "frame index (negative counts from the end)")
	previewCmd.Flags().StringVar(&previewProtocol, "protocol", "auto", "graphics protocol: auto, kitty or sixel")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "maximum width in pixels (default: terminal width)")
	previewCmd.Flags().Float64Var(&previewDPI, "dpi", 0, "render DPI (default: the scenario's animation DPI)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	proto, err := preview.ParseProtocol(previewProtocol)
	if err != nil {
		return err
	}

	sc, err := loadScenario()
	if err != nil {
		return err
	}
	th, err := loadTheme()
	if err != nil {
		return err
	}
	env, err := render.NewEnv(sc, th, chromeLabels())
	if err != nil {
		return err
	}

	frames := timeline.Build(sc)
	f, err := render.FrameAt(frames, previewFrame)
	if err != nil {
		return err
	}
	dpi := previewDPI
	if dpi <= 0 {
		dpi = sc.Output.DPI
	}
	img, err := pipeline.RenderFrame(env, f, dpi)
	if err != nil {
		return err
	}

	width := previewWidth
	if width <= 0 {
		if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 {
			width = cols * cellWidthPx
		}
	}

	seq, err := preview.Encode(img, proto, width)
	if errors.Is(err, preview.ErrNoGraphics) {
		return fmt.Errorf("%w; try --protocol kitty or sixel, or 'demoreel serve' and open the frame in a browser", err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, seq)
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s  %s", sc.Name, f.Phase)))
	return nil
}
