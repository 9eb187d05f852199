package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/config"
	"github.com/wethinkt/go-demoreel/internal/i18n"
)

var languageCmd = &cobra.Command{
	Use:   "language [lang]",
	Short: "Get or set the language of rendered labels and CLI output",
	Long: `Get or set the language used for the mock UI labels drawn into frames
and for CLI summaries. Use a BCP 47 tag. DEMOREEL_LANG overrides it.

Examples:
  demoreel language        # show current language and the available ones
  demoreel language de     # render German labels`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		available := i18n.Available()
		if len(args) == 0 {
			fmt.Fprintf(out, "Current language: %s\n", i18n.ResolveLocale(cfg.Language))
			fmt.Fprintf(out, "Available: %s\n", strings.Join(available, ", "))
			return nil
		}

		lang := args[0]
		base, _, _ := strings.Cut(lang, "-")
		if !slices.Contains(available, lang) && !slices.Contains(available, base) {
			return fmt.Errorf("no translations for %q (available: %s)", lang, strings.Join(available, ", "))
		}
		cfg.Language = lang
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Language set to: %s\n", lang)
		return nil
	},
}
