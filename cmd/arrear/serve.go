package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payarrear/arrear-calculator/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var progression string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the arrear HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := a.loadProgression(progression)
			if err != nil {
				return err
			}
			handler := api.NewHandler(store, p, a.logger)

			server := &http.Server{
				Addr:         a.settings.Addr,
				Handler:      api.NewRouter(handler, a.settings.AllowedOrigins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.WithField("addr", server.Addr).Info("server starting")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&a.settings.Addr, "addr", a.settings.Addr, "listen address")
	cmd.Flags().StringSliceVar(&a.settings.AllowedOrigins, "allowed-origins", a.settings.AllowedOrigins, "CORS allowed origins")
	cmd.Flags().StringVar(&progression, "progression", "", "pay progression YAML file (default: built-in 7th CPC matrix)")
	return cmd
}
