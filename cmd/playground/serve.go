package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/playground/internal/fixturesite"
)

func newServeCmd(global *globalFlags) *cobra.Command {
	var (
		addr  string
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bundled replica of the playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), global.verbose, nil)

			handler, err := fixturesite.New(fixturesite.Options{Delay: delay, Logger: logger})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("Serving playground", "addr", addr, "delay", delay)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving playground: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envString("PLAYGROUND_ADDR", "127.0.0.1:8080"), "listen address (env PLAYGROUND_ADDR)")
	cmd.Flags().DurationVar(&delay, "delay", fixturesite.DefaultDelay, "server and client side delays of the pages")

	return cmd
}
