package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/i18n"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
)

// scenario selection flags, shared by render, timeline, preview and serve
var (
	scenarioRef string
	configPath  string
	themeName   string
)

func addScenarioFlags(c *cobra.Command) {
	c.Flags().StringVarP(&scenarioRef, "scenario", "s", "", "built-in scenario name or path to a .toml file (default from config)")
	c.Flags().StringVarP(&configPath, "config", "c", "", "scenario TOML file (takes precedence over --scenario)")
	c.Flags().StringVar(&themeName, "theme", "", "render theme (default from config)")
}

// loadScenario resolves the scenario named by the flags, falling back to
// the configured default.
func loadScenario() (scenario.Scenario, error) {
	if configPath != "" {
		return scenario.Load(configPath)
	}
	ref := scenarioRef
	if ref == "" {
		ref = cfg.Scenario
	}
	if ref == "" {
		ref = "dcf"
	}
	return scenario.Resolve(ref)
}

func loadTheme() (theme.Theme, error) {
	name := themeName
	if name == "" {
		name = cfg.Theme
	}
	t, err := theme.LoadByName(name)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	return t, nil
}

// chromeLabels returns the mock UI labels in the active language.
func chromeLabels() render.Labels {
	def := render.DefaultLabels()
	return render.Labels{
		Subtitle:     i18n.T("ui.chat.subtitle", def.Subtitle),
		User:         i18n.T("ui.chat.user", def.User),
		FileUploaded: i18n.T("ui.attachment.label", def.FileUploaded),
	}
}
