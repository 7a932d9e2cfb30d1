package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/double-entry-ledger/internal/api"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(current func() *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long: `serve exposes the ledger as JSON endpoints:

  GET  /health
  GET  /accounts          POST /accounts      {"code", "name"}
  GET  /journal           POST /transactions  {"debit_account", "credit_account", "amount", "description"}
  POST /snapshot/save     POST /snapshot/load

The ledger is saved once more on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewHandler(a.session),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				logrus.WithField("addr", addr).Info("starting server")
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logrus.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logrus.WithError(err).Warn("shutdown did not complete")
				}
			}
			return a.session.Save(context.Background())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LEDGER_HTTP_ADDR)")
	return cmd
}
