package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/itsprade/good-morning/cmd/api"
	"github.com/itsprade/good-morning/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server with its background jobs",
	Long: `Start the HTTP API. Depending on configuration this also runs:
  - the task reminder loop (FIREBASE_CREDENTIALS)
  - the in-process daily sync (DAILY_SYNC_AT)
  - the Gmail push listener (GOOGLE_PROJECT_ID)`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer logger.Sync()
	log := logger.Named("server")

	if reminders := app.ReminderScheduler(); reminders != nil {
		reminders.Start()
		defer reminders.Stop()
	}

	dailySync, err := app.SyncScheduler()
	if err != nil {
		return err
	}
	if dailySync != nil {
		dailySync.Start()
		defer dailySync.Stop()
	}

	listener, err := app.PubSubListener(ctx)
	if err != nil {
		log.Error("failed to initialize Gmail push listener", zap.Error(err))
	} else if listener != nil {
		go listener.Start(ctx)
		defer listener.Close()
	}

	srv := api.NewServer(app)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
