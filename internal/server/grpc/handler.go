package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/accountauth/internal/api"
	"github.com/dmitrijs2005/accountauth/internal/common"
	"github.com/dmitrijs2005/accountauth/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.accounts.Register(ctx, req.Email, req.Password)
	if err := s.outcome(ctx, "register", result.Success, result.Message, err); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "account_id", result.Data)
	return toResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	result, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err := s.outcome(ctx, "login", result.Success, result.Message, err); err != nil {
		return nil, err
	}

	return toResponse(result), nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *api.VerifyRequest) (*api.VerifyResponse, error) {

	result, err := s.accounts.Verify(ctx, req.Token)
	if err := s.outcome(ctx, "verify", result.Success, result.Message, err); err != nil {
		return nil, err
	}

	return toResponse(result), nil
}

func (s *GRPCServer) ForgotPassword(ctx context.Context, req *api.ForgotPasswordRequest) (*api.ForgotPasswordResponse, error) {

	result, err := s.accounts.ForgotPassword(ctx, req.Email)
	if err := s.outcome(ctx, "forgot_password", result.Success, result.Message, err); err != nil {
		return nil, err
	}

	return toResponse(result), nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *api.ResetPasswordRequest) (*api.ResetPasswordResponse, error) {

	result, err := s.accounts.ResetPassword(ctx, req.Token, req.Password)
	if err := s.outcome(ctx, "reset_password", result.Success, result.Message, err); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Password reset", "account_id", result.Data)
	return toResponse(result), nil
}

// outcome turns a service result into a status error, or nil on success.
// Rejections carry their message; infrastructure details stay in the log.
func (s *GRPCServer) outcome(ctx context.Context, op string, success bool, message string, err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.Warn(ctx, "request aborted", "op", op, "error", err.Error())
			return status.FromContextError(err).Err()
		}
		s.logger.Error(ctx, "request failed", "op", op, "error", err.Error())
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	if !success {
		s.logger.Info(ctx, "request rejected", "op", op, "reason", message)
		return status.Error(codes.InvalidArgument, message)
	}
	return nil
}

func toResponse[T any](r services.Result[T]) *api.Response[T] {
	return &api.Response[T]{Success: r.Success, Message: r.Message, Data: r.Data}
}
