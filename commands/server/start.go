package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iov-one/escrowd/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagMetrics = "metrics"
	flagDebug   = "debug"
)

// StartCmd runs the ABCI server until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			conf, err := LoadConfig(home)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &conf); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				select {
				case <-sig:
					cancel()
				case <-ctx.Done():
				}
			}()
			return Start(ctx, gen, logger, home, conf)
		},
	}
	cmd.Flags().String(flagBind, "", "address server listens on, overrides abci_address")
	cmd.Flags().String(flagMetrics, "", "address of the prometheus endpoint, overrides metrics_address")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error")
	return cmd
}

func applyFlags(cmd *cobra.Command, conf *Config) error {
	if cmd.Flags().Changed(flagBind) {
		bind, err := cmd.Flags().GetString(flagBind)
		if err != nil {
			return err
		}
		conf.ABCIAddress = bind
	}
	if cmd.Flags().Changed(flagMetrics) {
		addr, err := cmd.Flags().GetString(flagMetrics)
		if err != nil {
			return err
		}
		conf.MetricsAddress = addr
	}
	if cmd.Flags().Changed(flagDebug) {
		debug, err := cmd.Flags().GetBool(flagDebug)
		if err != nil {
			return err
		}
		conf.Debug = debug
	}
	return conf.Validate()
}

// Start builds the application and serves it over the ABCI socket until
// the context is cancelled.
func Start(ctx context.Context, gen AppGenerator, logger log.Logger, home string, conf Config) error {
	opts := &Options{
		Logger: logger,
		Debug:  conf.Debug,
	}
	if home != "" {
		opts.DBPath = filepath.Join(home, conf.DBName)
	}

	var metrics *http.Server
	if conf.MetricsAddress != "" {
		registry := prometheus.NewRegistry()
		opts.Metrics = registry
		metrics = &http.Server{
			Addr:    conf.MetricsAddress,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		go func() {
			logger.Info("Serving metrics", "addr", conf.MetricsAddress)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer metrics.Close()
	}

	app, err := gen(opts)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.ABCIAddress)
	svr, err := server.NewServer(conf.ABCIAddress, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	return svr.Stop()
}
