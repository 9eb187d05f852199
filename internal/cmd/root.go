// Package cmd provides the CLI commands for demoreel.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/applog"
	"github.com/wethinkt/go-demoreel/internal/config"
	"github.com/wethinkt/go-demoreel/internal/i18n"
)

// global flags
var (
	profileFile *os.File // held open for profiling
	logPath     string
	verbose     bool
	outputJSON  bool
)

// cfg is the loaded application config, set before any subcommand runs.
var cfg = config.Default()

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "demoreel",
	Short: "Render scripted AI chat + spreadsheet product demos",
	Long: `demoreel renders a scripted "AI chat + spreadsheet" product demo into a
looping GIF and a PNG still of the final frame.

A scenario holds the prompt, bot responses, sheet data, timing and layout.
Two scenarios are built in (dcf, dcf-web); others are loaded from TOML files.

Examples:
  demoreel render                       # render the default scenario
  demoreel render --scenario dcf-web    # render a built-in scenario
  demoreel render --config my.toml -w   # render a file, re-render on change
  demoreel timeline                     # show the frame plan
  demoreel preview --frame -1           # show the last frame in the terminal
  demoreel serve                        # render frames over HTTP`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Start pprof profiling if DEMOREEL_PROFILE is set
		if profilePath := os.Getenv("DEMOREEL_PROFILE"); profilePath != "" {
			f, err := os.Create(profilePath)
			if err != nil {
				return fmt.Errorf("create profile file: %w", err)
			}
			profileFile = f

			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				profileFile = nil
				return fmt.Errorf("start CPU profile: %w", err)
			}
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		i18n.Init(i18n.ResolveLocale(cfg.Language))

		// logs reads the file named by --log and must not create it.
		if cmd == logsCmd {
			return nil
		}
		if logPath == "" && os.Getenv("DEMOREEL_DEBUG") != "" {
			logPath = defaultLogPath()
		}
		if err := applog.Init(logPath); err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		applog.Log.Debug("command start", "command", cmd.CommandPath(), "args", args)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Stop CPU profiling
		if profileFile != nil {
			pprof.StopCPUProfile()
			profileFile.Close()
			profileFile = nil
		}
		return applog.Log.Close()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// defaultLogPath is where DEMOREEL_DEBUG sends the debug log.
func defaultLogPath() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "demoreel.log")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug log to file")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
}
