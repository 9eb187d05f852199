package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/config"
	"github.com/wethinkt/go-demoreel/internal/theme"
)

// Theme command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List, inspect and select render themes",
	Long: `List, inspect and select the colour themes frames are rendered with.

Built-in themes: light (default), dark. User themes are JSON files in
~/.demoreel/themes/ and only need the colours they change.

Examples:
  demoreel theme list          # List all available themes
  demoreel theme show          # Show the active theme with swatches
  demoreel theme show --json   # Output a theme as JSON
  demoreel theme set dark      # Render with the dark theme by default`,
}

var themeShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a theme with colour swatches",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runThemeShow,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Long:  `List all built-in and user themes. The active theme is marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the default theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeSet,
}

func init() {
	themeShowCmd.Flags().BoolVar(&outputJSON, "json", false, "output theme as JSON")
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeSetCmd)
}

// swatch is one named colour of a theme.
type swatch struct {
	Name     string
	Color    string
	Category string
}

func swatches(t theme.Theme) []swatch {
	return []swatch{
		{"Background", t.Background, "Figure"},
		{"SheetBackground", t.SheetBackground, "Figure"},
		{"PanelFill", t.PanelFill, "Figure"},
		{"PanelBorder", t.PanelBorder, "Figure"},
		{"HeaderFill", t.HeaderFill, "Figure"},
		{"TitleText", t.TitleText, "Figure"},
		{"SubtitleText", t.SubtitleText, "Figure"},
		{"InputFill", t.InputFill, "Figure"},
		{"InputBorder", t.InputBorder, "Figure"},
		{"Accent", t.Accent, "Figure"},
		{"AccentText", t.AccentText, "Figure"},
		{"Text", t.Text, "Chat"},
		{"UserBubble", t.UserBubble, "Chat"},
		{"UserBubbleBorder", t.UserBubbleBorder, "Chat"},
		{"BotBubble", t.BotBubble, "Chat"},
		{"AttachmentFill", t.AttachmentFill, "Chat"},
		{"AttachmentBorder", t.AttachmentBorder, "Chat"},
		{"AttachmentLabel", t.AttachmentLabel, "Chat"},
		{"GridHeader", t.GridHeader, "Sheet"},
		{"GridHeaderBorder", t.GridHeaderBorder, "Sheet"},
		{"GridLine", t.GridLine, "Sheet"},
		{"ColumnDivider", t.ColumnDivider, "Sheet"},
		{"CellBackground", t.CellBackground, "Sheet"},
		{"YearHeader", t.YearHeader, "Sheet"},
		{"YearHeaderText", t.YearHeaderText, "Sheet"},
		{"InputValue", t.InputValue, "Sheet"},
	}
}

// runThemeShow displays a theme by name, or the active theme if no name given.
func runThemeShow(cmd *cobra.Command, args []string) error {
	name := cfg.Theme
	if len(args) > 0 {
		name = args[0]
	}
	t, err := theme.LoadByName(name)
	if err != nil {
		return fmt.Errorf("theme %q not found", name)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	return showTheme(out, name, t)
}

func showTheme(w io.Writer, name string, t theme.Theme) error {
	fmt.Fprintf(w, "Theme: %s\n", name)
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	fmt.Fprintln(w)

	nameStyle := lipgloss.NewStyle().Width(20)
	colorStyle := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("#6c757d"))
	current := ""
	for _, s := range swatches(t) {
		if s.Category != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, accentStyle.Render(s.Category))
			fmt.Fprintln(w, strings.Repeat("─", len(s.Category)+2))
			current = s.Category
		}
		sample := lipgloss.NewStyle().Background(lipgloss.Color(s.Color)).Render("      ")
		fmt.Fprintf(w, "  %s %s %s\n", nameStyle.Render(s.Name), colorStyle.Render(s.Color), sample)
	}
	return nil
}

// runThemeList lists all available themes.
func runThemeList(cmd *cobra.Command, args []string) error {
	themes, err := theme.ListAvailable()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range themes {
		marker := "  "
		if t.Name == cfg.Theme {
			marker = "* "
		}
		source := "built-in"
		if !t.Embedded {
			source = t.Path
		}
		fmt.Fprintf(out, "%s%-12s %s %s\n", marker, t.Name, t.Description, mutedStyle.Render("("+source+")"))
	}
	return nil
}

// runThemeSet sets the default theme.
func runThemeSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	t, err := theme.LoadByName(name)
	if err != nil {
		return fmt.Errorf("theme %q not found", name)
	}
	if _, err := t.Resolve(); err != nil {
		return fmt.Errorf("theme %q: %w", name, err)
	}

	cfg.Theme = name
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to: %s\n", name)
	return nil
}
