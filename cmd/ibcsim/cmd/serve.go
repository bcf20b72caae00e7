package cmd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ComposableFi/ibc-core/cmd/ibcsim/relayer"
	"github.com/ComposableFi/ibc-core/cmd/ibcsim/rest"
)

const (
	flagListen = "listen"

	shutdownTimeout = 5 * time.Second
)

// NewServeCmd returns the command that runs a simulation and then serves the
// resulting chain state over REST until interrupted.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Relay packets between two in-process chains and serve their IBC state over REST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.OutOrStdout(), viper.GetString(flagLogLevel))
			if err != nil {
				return err
			}

			cfg, err := configFromViper(cmd)
			if err != nil {
				return err
			}

			r, err := relayer.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if _, err := r.Run(ctx); err != nil {
				return err
			}

			listener, err := net.Listen("tcp", viper.GetString(flagListen))
			if err != nil {
				return errors.Wrap(err, "listening")
			}

			router := mux.NewRouter()
			rest.RegisterRoutes(router, r.Chains()...)

			logger.Info("serving chain state", "addr", listener.Addr().String())
			return serve(ctx, listener, router)
		},
	}

	addRelayerFlags(cmd)
	cmd.Flags().String(flagListen, "127.0.0.1:26680", "address the REST server listens on")

	return cmd
}

// serve runs an HTTP server on listener until ctx is done.
func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutting down REST server")
		}
		return nil
	}
}
