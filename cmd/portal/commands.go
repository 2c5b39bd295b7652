package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/suteetoe/tenantportal/internal/app"
	"github.com/suteetoe/tenantportal/internal/jobs"
	"github.com/suteetoe/tenantportal/pkg/config"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

// bootstrap loads configuration, the logger and the application
func bootstrap() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Configuration loaded", cfg.LogConfig()...)

	return app.New(cfg, log, nil)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			migrate, _ := cmd.Flags().GetBool("migrate")
			if migrate {
				if err := a.Migrate(); err != nil {
					return err
				}
				a.Log.Info("Database migration completed")
			}

			e := a.Echo()
			a.Log.Info("Routes registered", zap.Int("count", len(e.Routes())))
			addr := ":" + a.Config.Server.Port
			go func() {
				a.Log.Info("Starting server", zap.String("addr", addr))
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.Log.Fatal("Failed to start server", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			a.Log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().Bool("migrate", false, "run schema migration before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Migrate(); err != nil {
				return err
			}
			a.Log.Info("Database migration completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default manager, room and building directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Migrate(); err != nil {
				return err
			}
			res, err := a.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("manager created: %t, room created: %t, directory entries added: %d\n",
				res.ManagerCreated, res.RoomCreated, res.DirectoryAdded)
			return nil
		},
	}
}

func sweepOverdueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark due payments past the grace period as overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()

			var asOf time.Time
			if v, _ := cmd.Flags().GetString("as-of"); v != "" {
				asOf, err = time.Parse("2006-01-02", v)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q: %w", v, err)
				}
			}

			if enqueue, _ := cmd.Flags().GetBool("enqueue"); enqueue {
				client := jobs.NewClient(a.Config.Redis)
				defer client.Close()

				info, err := client.EnqueueMarkOverdue(cmd.Context(), jobs.MarkOverduePayload{AsOf: asOf})
				if err != nil {
					return err
				}
				a.Log.Info("Overdue sweep enqueued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
				fmt.Printf("overdue sweep queued as task %s\n", info.ID)
				return nil
			}

			if asOf.IsZero() {
				asOf = time.Now().UTC()
			}
			n, err := a.Payments.MarkOverdue(cmd.Context(), asOf)
			if err != nil {
				return err
			}
			fmt.Printf("%d payment(s) marked overdue\n", n)
			return nil
		},
	}
	cmd.Flags().String("as-of", "", "reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().Bool("enqueue", false, "queue the sweep for the worker instead of running it here")
	return cmd
}
