// Package server wires configuration, the PostgreSQL store, the optional
// Kafka notifier, the account service and the gRPC endpoint, and runs them
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accountauth/internal/logging"
	"github.com/dmitrijs2005/accountauth/internal/server/config"
	"github.com/dmitrijs2005/accountauth/internal/server/notify"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountauth/internal/server/services"

	gs "github.com/dmitrijs2005/accountauth/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	notifier *notify.KafkaNotifier
}

// openDB is a seam for tests.
var openDB = repomanager.OpenPostgres

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := openDB(ctx, c.DatabaseDSN, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	opts := []services.Option{services.WithLogger(logger)}
	if len(c.KafkaBrokers) > 0 {
		app.notifier = notify.NewKafkaNotifier(c.KafkaBrokers, c.KafkaTopic)
		opts = append(opts, services.WithNotifier(app.notifier))
		logger.Info(ctx, "Publishing token events", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	}

	app.accounts = services.NewAccountService(db, repomanager.NewPostgresRepositoryManager(), c, opts...)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.config.RequestTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database and the notifier.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err.Error())
	}
	app.logger.Info(ctx, "Stopped")
}

func (app *App) Close() error {
	var errs []error
	if app.notifier != nil {
		errs = append(errs, app.notifier.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
