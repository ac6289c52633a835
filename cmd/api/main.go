package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/themisvote/themis/backend/internal/config"
	"github.com/themisvote/themis/backend/internal/database"
	"github.com/themisvote/themis/backend/internal/logger"
	"github.com/themisvote/themis/backend/internal/server"
	"github.com/themisvote/themis/backend/internal/services"
	"github.com/themisvote/themis/backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	// Log with rotation next to the database, plus stdout
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "themis.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
	}).Infof("starting %s backend", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("open database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Log().WithError(err).Fatal("migrate database")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	// nightly registry audit: duplicate course assignments are reported to
	// administrators, never silently repaired
	notifier := services.NewNotificationService(db, cfg.NotifyURLs)
	audit := services.NewAuditService(db, notifier)
	scheduler := cron.New()
	if err := audit.Schedule(scheduler, cfg.AuditSchedule); err != nil {
		logger.Log().WithError(err).Fatal("schedule registry audit")
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(map[string]interface{}{"port": cfg.HTTPPort}).Info("listening")
	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}
}
