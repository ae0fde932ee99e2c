package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/accountauth/internal/server/config"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/repomanager"
)

func stubOpenDB(t *testing.T, fn func(ctx context.Context, dsn string, m repomanager.RepositoryManager) (*sql.DB, error)) {
	t.Helper()
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = fn
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	return cfg
}

func TestNewApp_DBError(t *testing.T) {
	boom := errors.New("no db")
	stubOpenDB(t, func(context.Context, string, repomanager.RepositoryManager) (*sql.DB, error) {
		return nil, boom
	})

	_, err := NewApp(context.Background(), testConfig())
	require.ErrorIs(t, err, boom)
}

func TestNewApp_WiresNotifierOnlyWithBrokers(t *testing.T) {
	var gotDSN string
	stubOpenDB(t, func(_ context.Context, dsn string, _ repomanager.RepositoryManager) (*sql.DB, error) {
		gotDSN = dsn
		db, mock, err := sqlmock.New()
		mock.ExpectClose()
		return db, err
	})

	cfg := testConfig()
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.DatabaseDSN, gotDSN)
	assert.NotNil(t, app.accounts)
	assert.Nil(t, app.notifier)
	require.NoError(t, app.Close())

	cfg.KafkaBrokers = []string{"127.0.0.1:9092"}
	app, err = NewApp(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, app.notifier)
	require.NoError(t, app.Close())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	stubOpenDB(t, func(context.Context, string, repomanager.RepositoryManager) (*sql.DB, error) {
		db, mock, err := sqlmock.New()
		mock.ExpectClose()
		return db, err
	})

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
