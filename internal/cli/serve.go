package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	poshttp "github.com/modybick/pos/internal/http"
	"github.com/modybick/pos/internal/scanner"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var (
		port            string
		requestTimeout  time.Duration
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the terminal HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			// Resolve the terminal identity eagerly so the first checkout
			// does not pay for it.
			terminalID, err := app.Identity.GetOrCreate(cmd.Context())
			if err != nil {
				return err
			}
			log.Printf("terminal id: %s", terminalID)

			if restored, err := app.Session.RestorePending(cmd.Context()); err != nil {
				log.Printf("failed to restore pending cart: %v", err)
			} else if restored {
				log.Printf("restored pending cart reproduction, total = %d", app.Session.Total())
			}

			debouncer := scanner.NewDebouncer(
				scanner.WithCooldown(app.Settings.ScanCooldown),
			)

			router := poshttp.NewRouter(poshttp.Handlers{
				Scan:     poshttp.NewScanHandler(debouncer, app.Session),
				Cart:     poshttp.NewCartHandler(app.Session),
				Sales:    poshttp.NewSaleHandler(app.Ledger, app.Exporter, app.Handoff),
				Products: poshttp.NewProductHandler(app.Catalog),
				Settings: poshttp.NewSettingsHandler(app.Settings),
			}, requestTimeout)

			srv := &http.Server{
				Addr:        ":" + port,
				Handler:     otelhttp.NewHandler(router, "pos-terminal"),
				ReadTimeout: 10 * time.Second,
				IdleTimeout: 60 * time.Second,
			}

			go func() {
				log.Printf("POS terminal API starting on :%s", port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("server error: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Println("shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return err
			}

			log.Println("server exited")
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", getEnv("POS_HTTP_PORT", "8080"), "HTTP port to listen on")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	return cmd
}
