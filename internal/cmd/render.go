package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/applog"
	"github.com/wethinkt/go-demoreel/internal/i18n"
	"github.com/wethinkt/go-demoreel/internal/metrics"
	"github.com/wethinkt/go-demoreel/internal/pipeline"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/watch"
)

// render command flags
var (
	renderOutDir      string
	renderAll         bool
	renderJobs        int
	renderWatch       bool
	renderMetricsFile string
	renderQuiet       bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a scenario to a looping GIF and a PNG still",
	Long: `Render a scenario to a looping GIF and a PNG still of its last frame.

Output names come from the scenario's [output] table and are written to
--out (default: the configured output directory). Files are replaced
atomically.

Examples:
  demoreel render                          # default scenario
  demoreel render -s dcf-web -o site/img   # built-in landing-page cut
  demoreel render --all                    # every built-in scenario, in parallel
  demoreel render -c demo.toml --watch     # re-render when demo.toml changes
  demoreel render --metrics-file render.prom`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	addScenarioFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "output directory (default from config)")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "render every built-in scenario concurrently")
	renderCmd.Flags().IntVarP(&renderJobs, "jobs", "j", 0, "scenarios rendered at once with --all (0 = no limit)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render when the scenario file or user theme changes")
	renderCmd.Flags().StringVar(&renderMetricsFile, "metrics-file", "", "write Prometheus metrics to this file after rendering")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "suppress progress and summary output")
	renderCmd.Flags().BoolVar(&outputJSON, "json", false, "print results as JSON")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderAll && renderWatch {
		return errors.New("--all and --watch cannot be combined")
	}

	th, err := loadTheme()
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		OutDir: renderOutDir,
		Theme:  th,
		Labels: chromeLabels(),
	}
	if opts.OutDir == "" {
		opts.OutDir = cfg.OutputDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if renderAll {
		return renderPresets(ctx, cmd.OutOrStdout(), opts)
	}

	sc, err := loadScenario()
	if err != nil {
		return err
	}
	if err := renderOne(ctx, cmd, sc, opts); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}
	return watchAndRender(ctx, cmd, opts)
}

func renderPresets(ctx context.Context, out io.Writer, opts pipeline.Options) error {
	var scs []scenario.Scenario
	for _, name := range scenario.Presets() {
		sc, err := scenario.LoadPreset(name)
		if err != nil {
			return err
		}
		scs = append(scs, sc)
	}
	results, err := pipeline.RenderAll(ctx, scs, opts, renderJobs)
	if err != nil {
		return err
	}
	if err := writeMetricsFile(); err != nil {
		return err
	}
	return printResults(out, results...)
}

func renderOne(ctx context.Context, cmd *cobra.Command, sc scenario.Scenario, opts pipeline.Options) error {
	pr := NewProgressReporter(cmd.ErrOrStderr())
	if pr.ShouldShowProgress(renderQuiet || outputJSON, verbose) {
		opts.Progress = func(done, total int) { pr.Frames(sc.Name, done, total) }
	}

	res, err := pipeline.Render(ctx, sc, opts)
	if opts.Progress != nil {
		pr.Finish()
	}
	if err != nil {
		return err
	}
	if err := writeMetricsFile(); err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), res)
}

func writeMetricsFile() error {
	if renderMetricsFile == "" {
		return nil
	}
	return metrics.WriteTextfile(renderMetricsFile)
}

func printResults(w io.Writer, results ...pipeline.Result) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if renderQuiet {
		return nil
	}
	for _, r := range results {
		frames := i18n.Tn("cmd.render.frames", "{{.Count}} frame", "{{.Count}} frames", r.Frames)
		fmt.Fprintf(w, "%s %s  %s, %s\n",
			okStyle.Render("✓"),
			accentStyle.Render(r.Scenario),
			frames,
			mutedStyle.Render(i18n.Tf("cmd.render.reused", "%d reused", r.Reused)+", "+i18n.Duration(r.Elapsed)))
		fmt.Fprintf(w, "  %s %s\n", pathStyle.Render(r.AnimationPath), mutedStyle.Render(formatByteSize(r.AnimationBytes)))
		fmt.Fprintf(w, "  %s %s\n", pathStyle.Render(r.StillPath), mutedStyle.Render(formatByteSize(r.StillBytes)))
	}
	return nil
}

// watchAndRender re-renders the --config file whenever it, or the active
// user theme, changes. Failed renders are reported and watching continues.
func watchAndRender(ctx context.Context, cmd *cobra.Command, opts pipeline.Options) error {
	if configPath == "" {
		return errors.New("--watch needs a scenario file (--config); built-in scenarios never change")
	}

	files := []string{configPath}
	if dir, err := theme.ThemesDir(); err == nil {
		userTheme := filepath.Join(dir, opts.Theme.Name+".json")
		if _, err := os.Stat(userTheme); err == nil {
			files = append(files, userTheme)
		}
	}

	w, err := watch.New(files, 0)
	if err != nil {
		return err
	}
	defer w.Close()

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, mutedStyle.Render(i18n.Tf("cmd.render.watching", "Watching %s (Ctrl+C to stop)", configPath)))

	err = w.Run(ctx, func(path string) {
		applog.Log.Info("re-render", "trigger", path)
		sc, err := scenario.Load(configPath)
		if err == nil {
			opts.Theme, err = loadTheme()
		}
		if err == nil {
			err = renderOne(ctx, cmd, sc, opts)
		}
		if err != nil {
			fmt.Fprintf(errOut, "%s %v\n", errStyle.Render("✗"), err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
