package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/i18n"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

var scenariosResolved bool

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List and inspect the built-in scenarios",
	Long: `List and inspect the built-in scenarios.

A built-in scenario is a good starting point for your own: save it with
'demoreel scenarios show dcf > mine.toml', edit, then render with
'demoreel render --config mine.toml'.`,
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, name := range scenario.Presets() {
			sc, err := scenario.LoadPreset(name)
			if err != nil {
				return err
			}
			marker := "  "
			if name == cfg.Scenario {
				marker = "* "
			}
			frames := timeline.PlanCounts(sc).Total()
			fmt.Fprintf(tw, "%s%s\t%s\t%dx%d @ %d fps\t%s\n", marker, name,
				i18n.Tn("cmd.render.frames", "{{.Count}} frame", "{{.Count}} frames", frames),
				int(sc.Output.WidthIn*sc.Output.DPI+0.5), int(sc.Output.HeightIn*sc.Output.DPI+0.5),
				sc.Output.FPS, sc.Description)
		}
		return tw.Flush()
	},
}

var scenariosShowCmd = &cobra.Command{
	Use:   "show <name|file.toml>",
	Short: "Print a scenario as TOML",
	Long: `Print a scenario as TOML. Built-in scenarios are printed as shipped,
with comments; --resolved prints the decoded scenario with every default
filled in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !scenariosResolved {
			if data, err := scenario.PresetSource(args[0]); err == nil {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
		}
		sc, err := scenario.Resolve(args[0])
		if err != nil {
			return err
		}
		data, err := sc.Encode()
		if err != nil {
			return fmt.Errorf("encode scenario: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var scenariosValidateCmd = &cobra.Command{
	Use:   "validate <file.toml>...",
	Short: "Check scenario files without rendering",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if _, err := scenario.Load(path); err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", errStyle.Render("✗"), err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("✓"), path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenario files are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	scenariosShowCmd.Flags().BoolVar(&scenariosResolved, "resolved", false, "print the decoded scenario with defaults filled in")
	scenariosCmd.AddCommand(scenariosListCmd)
	scenariosCmd.AddCommand(scenariosShowCmd)
	scenariosCmd.AddCommand(scenariosValidateCmd)
}
