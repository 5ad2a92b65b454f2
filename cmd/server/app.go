package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktracker/internal/api"
	"github.com/phrazzld/tasktracker/internal/api/middleware"
	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/notify"
	"github.com/phrazzld/tasktracker/internal/platform/postgres"
	"github.com/phrazzld/tasktracker/internal/platform/sqlite"
	"github.com/phrazzld/tasktracker/internal/reminder"
	"github.com/phrazzld/tasktracker/internal/service"
	"github.com/phrazzld/tasktracker/internal/service/auth"
	"github.com/phrazzld/tasktracker/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is the raw handle behind the stores, used for health checks.
	db      *sql.DB
	closeDB func() error

	users      store.UserStore
	tasks      store.TaskStore
	categories store.CategoryStore

	authenticator *auth.Authenticator
	userService   service.UserService
	taskService   service.TaskService

	notifier notify.Notifier
	sweeper  *reminder.Sweeper
}

// newApplication opens storage and builds every service. The caller must
// call cleanup when done.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.openStores(ctx); err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("authentication initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String(),
		"bcrypt_cost", hasher.Cost())

	app.authenticator, err = auth.NewAuthenticator(app.users, hasher, jwtService)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	app.userService = service.NewUserService(app.users, hasher, logger)
	app.taskService = service.NewTaskService(app.tasks, app.categories, logger)

	app.notifier, err = newNotifier(cfg.Notifier, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	app.sweeper = reminder.NewSweeper(app.tasks, app.notifier, reminder.SweeperConfig{
		Workers:   cfg.Scheduler.Workers,
		BatchSize: cfg.Scheduler.BatchSize,
	}, logger)

	logger.Info("application initialized",
		"database_driver", cfg.Database.Driver,
		"notifier_driver", cfg.Notifier.Driver)
	return app, nil
}

// openStores connects the configured storage backend.
func (app *application) openStores(ctx context.Context) error {
	cfg := app.config.Database

	switch cfg.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		app.db = db
		app.closeDB = db.Close
		app.users = postgres.NewPostgresUserStore(db, app.logger)
		app.tasks = postgres.NewPostgresTaskStore(db, app.logger)
		app.categories = postgres.NewPostgresCategoryStore(db, app.logger)

	case "sqlite":
		gdb, err := sqlite.Open(cfg.URL, app.logger)
		if err != nil {
			return err
		}
		db, err := gdb.DB()
		if err != nil {
			_ = sqlite.Close(gdb)
			return fmt.Errorf("get sql handle: %w", err)
		}
		app.db = db
		app.closeDB = func() error { return sqlite.Close(gdb) }
		app.users = sqlite.NewUserStore(gdb)
		app.tasks = sqlite.NewTaskStore(gdb)
		app.categories = sqlite.NewCategoryStore(gdb)

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	app.logger.Info("database connection established", "driver", cfg.Driver)
	return nil
}

// newNotifier builds the configured delivery channel.
func newNotifier(cfg config.NotifierConfig, logger *slog.Logger) (notify.Notifier, error) {
	switch cfg.Driver {
	case "smtp":
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			StartTLS: cfg.SMTP.StartTLS,
		})
	case "telegram":
		return notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
	case "log", "":
		return notify.NewLogNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier driver %q", cfg.Driver)
	}
}

// router builds the HTTP handler tree.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		AuthHandler:    api.NewAuthHandler(app.userService, app.authenticator),
		TaskHandler:    api.NewTaskHandler(app.taskService),
		HealthHandler:  api.NewHealthHandler(app.db),
		AuthMiddleware: middleware.NewAuthMiddleware(app.authenticator),
		Logger:         app.logger,
	})
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.closeDB != nil {
		if err := app.closeDB(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.closeDB = nil
	}

	app.logger.Info("application shutdown completed")
}
