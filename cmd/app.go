package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"

	config "tasker.com/tasker/internal/configs"
	"tasker.com/tasker/internal/notifications"
	repository "tasker.com/tasker/internal/repositories"
	"tasker.com/tasker/internal/services"
)

type appOptions struct {
	// asyncNotify puts a queue in front of the notification sink.
	asyncNotify bool
	// logOut overrides where logs go; the TUI owns the terminal.
	logOut io.Writer
}

// app is the process-wide set of collaborators every front-end shares.
type app struct {
	cfg           config.Config
	log           lgr.L
	tasks         *services.TaskService
	notifications notifications.Log

	closers []func(ctx context.Context)
}

func newApp(opts appOptions) (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logOut := opts.logOut
	if logOut == nil {
		logOut = os.Stdout
	}
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.Out(logOut), lgr.Err(logOut)}
	if cfg.Debug || debugLogging {
		logOpts = append(logOpts, lgr.Debug, lgr.CallerFunc)
	}
	lgr.Setup(logOpts...)
	logger := lgr.New(logOpts...)

	if envErr != nil {
		logger.Logf("[DEBUG] .env file not found, using environment variables")
	}

	a := &app{cfg: cfg, log: logger}

	db, err := config.NewDatabase(cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func(context.Context) { _ = sqlDB.Close() })
	}

	switch cfg.NotifierBackend {
	case config.NotifierRedis:
		redisClient, err := config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) { redisClient.Close() })
		a.notifications = notifications.NewRedisLog(redisClient, cfg.RedisNotificationsKey, logger)
	default:
		a.notifications = notifications.NewFileLog(cfg.NotificationsPath, logger)
	}

	var notifier services.Notifier = a.notifications
	if opts.asyncNotify {
		async := notifications.NewAsyncNotifier(a.notifications, cfg.NotificationsQueueSize, logger)
		// drain before the sink's own resources are released
		a.closers = append([]func(context.Context){async.Shutdown}, a.closers...)
		notifier = async
	}

	a.tasks = services.NewTaskService(repository.NewTaskRepository(db), notifier)
	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	for _, c := range a.closers {
		c(ctx)
	}
}

func (a *app) shutdownTimeout() time.Duration {
	if a.cfg.ShutdownTimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(a.cfg.ShutdownTimeoutSeconds) * time.Second
}
