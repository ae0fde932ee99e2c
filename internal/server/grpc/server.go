// Package grpc exposes the account service over gRPC with a JSON codec.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/accountauth/internal/logging"
	"github.com/dmitrijs2005/accountauth/internal/server/models"
	"github.com/dmitrijs2005/accountauth/internal/server/services"
)

// AccountService is the business layer the handlers call.
type AccountService interface {
	Register(ctx context.Context, email, password string) (services.Result[models.AccountID], error)
	Login(ctx context.Context, email, password string) (services.Result[string], error)
	Verify(ctx context.Context, token string) (services.Result[bool], error)
	ForgotPassword(ctx context.Context, email string) (services.Result[string], error)
	ResetPassword(ctx context.Context, token, newPassword string) (services.Result[models.AccountID], error)
}

type GRPCServer struct {
	address        string
	accounts       AccountService
	logger         logging.Logger
	requestTimeout time.Duration
}

func NewGRPCServer(a string, l logging.Logger, as AccountService, requestTimeout time.Duration) *GRPCServer {
	return &GRPCServer{
		address:        a,
		logger:         l.With("module", "grpc_server"),
		accounts:       as,
		requestTimeout: requestTimeout,
	}
}

// NewServer creates a grpc.Server with the interceptor chain and the
// account service registered, without listening.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.requestIDInterceptor,
		s.loggingInterceptor,
		s.timeoutInterceptor,
		s.validationInterceptor,
	))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&accountServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
