package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/theory-forum/backend/internal/database"
	"github.com/emilythestrangee/theory-forum/backend/internal/server"
	"github.com/emilythestrangee/theory-forum/backend/internal/voting"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := commonRun(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := database.Migrate(db.GetDB()); err != nil {
					return err
				}
				logger.Info("database migrated")
			}

			if cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			engine := voting.NewEngine(
				database.NewVoteStore(db.GetDB()),
				voting.WithLogger(logger),
				voting.WithTimeout(cfg.CastTimeout),
			)
			srv := server.NewServer(cfg, db, engine, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	return cmd
}
