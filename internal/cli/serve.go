package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swipesavvy/location-tracking-go/internal/api"
	"github.com/swipesavvy/location-tracking-go/internal/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracking agent and its control API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	// Restore identity and the last tracking flag. The flag is assumed, not
	// re-verified: tracking restarts only when the operator asks for it.
	a.controller.Restore(ctx)
	if a.cfg.UserID != "" {
		a.controller.SetUserID(ctx, a.cfg.UserID)
	}

	tracking := handler.NewTrackingHandler(a.controller, a.svc, a.client)
	router := api.SetupRouter(a.cfg, tracking, a.logger)

	srv := &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("control API listening", "addr", a.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.logger.Info("shutting down", "signal", sig.String())
	}

	// The tracking flag is deliberately left as-is so a restart restores the
	// last known tracking state.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
