package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/hexctl/internal/api"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/robot"
)

var (
	serveFlags   EndpointFlags
	serveListen  string
	serveConnect bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the robot over HTTP",
	Long: `Run an HTTP bridge so other programs can drive the robot.

Routes:
  GET  /state  /battery  /events (server-sent events)
  POST /connect  /disconnect  /press/:command  /release
  POST /send/:command  /battery/refresh

Examples:
  hexctl serve
  hexctl serve --listen :8787 --connect
  curl -X POST localhost:8787/press/forward`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd.Context())
	},
}

func init() {
	AddEndpointFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from api.listen)")
	serveCmd.Flags().BoolVar(&serveConnect, "connect", false, "connect to the robot at startup")
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(parent context.Context) error {
	store, err := loadSettings()
	if err != nil {
		return err
	}
	cfg := store.Config()

	listen := cfg.API.Listen
	if serveListen != "" {
		listen = serveListen
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := robot.NewManager(robotOptions(cfg))
	defer m.Disconnect()

	if serveConnect {
		ep, err := serveFlags.Resolve(&cfg)
		if err != nil {
			return err
		}
		// A robot that isn't up yet shouldn't stop the bridge; POST /connect
		// can retry.
		_ = connectWithProgress(ctx, m, ep, os.Stdout)
	}

	srv := api.New(m, store, logger.New("api"))
	return srv.ListenAndServe(ctx, listen)
}
