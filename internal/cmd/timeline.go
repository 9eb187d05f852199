package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/i18n"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

var timelineRuns bool

// timelineReport is the --json shape of the timeline command.
type timelineReport struct {
	Scenario string          `json:"scenario"`
	Total    int             `json:"total"`
	Seconds  float64         `json:"seconds"`
	Counts   timeline.Counts `json:"counts"`
	Runs     []timeline.Run  `json:"runs,omitempty"`
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the frame plan of a scenario",
	Long: `Show how many frames each phase of a scenario takes, and the running
time at the scenario's frame rate. Nothing is rendered.

Examples:
  demoreel timeline                  # default scenario
  demoreel timeline -s dcf-web       # built-in landing-page cut
  demoreel timeline --runs           # also list consecutive phase runs
  demoreel timeline --json`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	addScenarioFlags(timelineCmd)
	timelineCmd.Flags().BoolVar(&timelineRuns, "runs", false, "list consecutive phase runs with their first frame")
	timelineCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario()
	if err != nil {
		return err
	}

	counts := timeline.PlanCounts(sc)
	report := timelineReport{
		Scenario: sc.Name,
		Total:    counts.Total(),
		Seconds:  float64(counts.Total()) / float64(sc.Output.FPS),
		Counts:   counts,
	}
	if timelineRuns {
		report.Runs = timeline.Runs(timeline.Build(sc))
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "%s  %s\n\n", accentStyle.Render(sc.Name),
		mutedStyle.Render(i18n.Tf("cmd.timeline.length", "%.1f s at %d fps", report.Seconds, sc.Output.FPS)))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, p := range timeline.Phases {
		if n := counts[p]; n > 0 {
			fmt.Fprintf(tw, "%s\t%d\t\n", p, n)
		}
	}
	fmt.Fprintf(tw, "%s\t%d\t\n", i18n.T("cmd.timeline.total", "total"), report.Total)
	if err := tw.Flush(); err != nil {
		return err
	}

	if timelineRuns {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "START\tCOUNT\tPHASE")
		for _, r := range report.Runs {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", r.Start, r.Count, r.Phase)
		}
		return tw.Flush()
	}
	return nil
}
