package cli

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/village-market/internal/config"
	"github.com/rcliao/village-market/internal/dialog"
	"github.com/rcliao/village-market/internal/logging"
	"github.com/rcliao/village-market/internal/server"
	"github.com/rcliao/village-market/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the USSD callback over HTTP",
		Long:  "Listen for gateway callbacks on POST /ussd (and POST /) until interrupted.",
		Run:   runServe,
	}

	cmd.Flags().String("listen", "", "Listen address (default: server.listen, 127.0.0.1:5000)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "", "Log format: json or console")

	_ = v.BindPFlag(config.KeyListen, cmd.Flags().Lookup("listen"))
	_ = v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, cmd.Flags().Lookup("log-format"))

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		exitErr("logger", err)
	}
	defer logger.Sync() //nolint:errcheck

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	engine := dialog.New(s, session.NewMemoryStore(),
		dialog.WithLogger(logger.Named("dialog")),
		dialog.WithBrowseLimit(cfg.BrowseLimit),
	)
	srv := server.New(engine, logger.Named("http"))

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		exitErr("listen", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving",
		zap.String("addr", ln.Addr().String()),
		zap.String("db", getDBPath()),
	)
	if err := srv.Serve(ctx, ln, cfg.ShutdownTimeout); err != nil {
		exitErr("serve", err)
	}
}
