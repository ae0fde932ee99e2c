package grpc

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/accountauth/internal/api"
	"github.com/dmitrijs2005/accountauth/internal/client/client"
	"github.com/dmitrijs2005/accountauth/internal/common"
	"github.com/dmitrijs2005/accountauth/internal/dbx"
	"github.com/dmitrijs2005/accountauth/internal/logging"
	"github.com/dmitrijs2005/accountauth/internal/server/config"
	"github.com/dmitrijs2005/accountauth/internal/server/models"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/accounts/accountstest"
	"github.com/dmitrijs2005/accountauth/internal/server/services"
)

type memManager struct {
	repo *accountstest.Repository
}

func (m memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m memManager) Accounts(dbx.DBTX) accounts.Repository        { return m.repo }

type tokenSink struct {
	events chan models.TokenEvent
}

func (s tokenSink) Notify(_ context.Context, e models.TokenEvent) error {
	s.events <- e
	return nil
}

// startBufServer serves a real AccountService over an in-memory listener
// and returns a client connected to it.
func startBufServer(t *testing.T) (*client.GRPCClient, grpc.ClientConnInterface, sqlmock.Sqlmock, tokenSink) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	sink := tokenSink{events: make(chan models.TokenEvent, 8)}
	svc := services.NewAccountService(db, memManager{repo: accountstest.New()}, cfg, services.WithNotifier(sink))

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", logging.Nop{}, svc, time.Second).NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return client.NewFromConn(conn), conn, mock, sink
}

func requireRejected(t *testing.T, err error, message string) {
	t.Helper()
	var rej *client.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, message, rej.Message)
}

func TestEndToEnd_AccountLifecycle(t *testing.T) {
	c, _, mock, sink := startBufServer(t)
	ctx := context.Background()

	// register, verify, forgot, reset each run in one transaction
	for range 4 {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}

	reg, err := c.Register(ctx, "Alice@x.io", "pw1")
	require.NoError(t, err)
	assert.True(t, reg.Success)
	assert.Equal(t, services.MsgRegistrationSuccessful, reg.Message)
	id := reg.Data

	verification := <-sink.events
	assert.Equal(t, models.VerificationIssued, verification.Kind)

	_, err = c.Login(ctx, "alice@x.io", "pw1")
	requireRejected(t, err, services.MsgUserNotVerified)

	ver, err := c.Verify(ctx, verification.Token)
	require.NoError(t, err)
	assert.True(t, ver.Data)

	login, err := c.Login(ctx, "alice@x.io", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back Alice@x.io!", login.Data)

	fp, err := c.ForgotPassword(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Len(t, fp.Data, 128)
	reset := <-sink.events
	assert.Equal(t, fp.Data, reset.Token)

	rp, err := c.ResetPassword(ctx, fp.Data, "pw2")
	require.NoError(t, err)
	assert.Equal(t, id, rp.Data)
	assert.Equal(t, services.MsgPasswordReset, rp.Message)

	_, err = c.Login(ctx, "alice@x.io", "pw1")
	requireRejected(t, err, services.MsgWrongPassword)

	login, err = c.Login(ctx, "alice@x.io", "pw2")
	require.NoError(t, err)
	assert.True(t, login.Success)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEndToEnd_ValidationFailsBeforeService(t *testing.T) {
	c, _, mock, _ := startBufServer(t)

	_, err := c.Register(context.Background(), "not-an-email", "pw")
	var rej *client.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Message, "email")

	// no transaction was started
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEndToEnd_InternalErrorIsOpaque(t *testing.T) {
	c, _, mock, _ := startBufServer(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	_, err := c.Verify(context.Background(), "tok")
	require.Error(t, err)
	var rej *client.RejectedError
	assert.False(t, errors.As(err, &rej))
	assert.Contains(t, err.Error(), "internal error")
	assert.NotContains(t, err.Error(), sql.ErrConnDone.Error())
}

func TestEndToEnd_RequestIDHeader(t *testing.T) {
	_, conn, mock, _ := startBufServer(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.RequestIDHeaderName, "abc-123")
	var header metadata.MD
	var out api.RegisterResponse

	err := conn.Invoke(ctx, api.RegisterMethod, &api.RegisterRequest{Email: "h@x.io", Password: "pw"}, &out,
		grpc.CallContentSubtype(api.CodecName), grpc.Header(&header))
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, []string{"abc-123"}, header.Get(common.RequestIDHeaderName))
}
