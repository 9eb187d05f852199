package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-demoreel/internal/i18n"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/server"
)

// serve command flags
var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve [file.toml]...",
	Short: "Serve frames and animations over HTTP",
	Long: `Start an HTTP server that renders frames and animations on demand.

The built-in scenarios are always available; scenario files given as
arguments are served next to them.

Endpoints:
  GET /api/v1/scenarios
  GET /api/v1/scenarios/{name}
  GET /api/v1/scenarios/{name}/timeline
  GET /api/v1/scenarios/{name}/frames/{index}.png[?dpi=N]
  GET /api/v1/scenarios/{name}/animation.gif
  GET /metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", server.DefaultConfig().Port, "server port")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "server host")
	serveCmd.Flags().StringVar(&themeName, "theme", "", "render theme (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	th, err := loadTheme()
	if err != nil {
		return err
	}

	config := server.DefaultConfig()
	config.Host = serveHost
	config.Port = servePort
	config.Theme = th
	config.Labels = chromeLabels()
	for _, path := range args {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		config.Scenarios = append(config.Scenarios, sc)
	}

	srv := server.NewHTTPServer(config)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), i18n.Tf("cmd.serve.listening", "Serving demos at %s", accentStyle.Render("http://"+srv.Addr())))
	return srv.ListenAndServe(ctx)
}
