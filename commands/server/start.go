package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/coffer/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// FlagBind is the address the ABCI server listens on.
	FlagBind = "bind"
	// FlagDebug returns call stacks with errors.
	FlagDebug = "debug"
	// FlagMetrics is the address prometheus metrics are served on.
	// Metrics are disabled when empty.
	FlagMetrics = "metrics"

	// DefaultBind is the address tendermint connects to by default.
	DefaultBind = "tcp://localhost:26658"
)

// Options are passed to an AppGenerator.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd builds the application and serves it over an ABCI socket until
// the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := &Options{
				Home:   viper.GetString(FlagHome),
				Logger: logger,
				Debug:  viper.GetBool(FlagDebug),
			}
			app, err := gen(opts)
			if err != nil {
				return errors.Wrap(err, "create application")
			}
			return Serve(ctx, app, logger, viper.GetString(FlagBind), viper.GetString(FlagMetrics))
		},
	}
	cmd.Flags().String(FlagBind, DefaultBind, "address server listens on")
	cmd.Flags().Bool(FlagDebug, false, "call stack returned on error")
	cmd.Flags().String(FlagMetrics, "", "address to serve prometheus metrics on, for example :9100")
	for _, name := range []string{FlagBind, FlagDebug, FlagMetrics} {
		viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

// Serve runs the ABCI socket server and, if metricsAddr is set, the
// metrics endpoint. It blocks until ctx is done.
func Serve(ctx context.Context, app abci.Application, logger log.Logger, addr, metricsAddr string) error {
	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}
	defer svr.Stop()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		hs := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			logger.Info("Serving metrics", "addr", metricsAddr)
			if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			hs.Shutdown(sctx)
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}
