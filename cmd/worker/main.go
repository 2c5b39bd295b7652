package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/suteetoe/tenantportal/internal/app"
	"github.com/suteetoe/tenantportal/internal/jobs"
	"github.com/suteetoe/tenantportal/pkg/config"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting worker...", cfg.LogConfig()...)

	a, err := app.New(cfg, log, nil)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	redisOpt := jobs.RedisOpt(cfg.Redis)
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"default": 1,
		},
	})

	registry := jobs.NewHandlersRegistry()
	overdue := jobs.NewOverdueWorker(a.Payments, log)
	registry.Register(jobs.TypeMarkOverdue, asynq.HandlerFunc(overdue.ProcessTask))

	scheduler, err := jobs.NewScheduler(redisOpt, cfg.Portal.OverdueCronSpec)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Shutdown()

	if err := srv.Start(registry.Mux()); err != nil {
		log.Fatal("Failed to start worker", zap.Error(err))
	}
	log.Info("Worker started", zap.String("overdue_cron", cfg.Portal.OverdueCronSpec))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info("Shutting down worker")
	srv.Shutdown()
}
