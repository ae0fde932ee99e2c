package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/accountauth/internal/api"
)

// accountServer is the set of unary handlers behind accounts.AccountService.
type accountServer interface {
	Register(context.Context, *api.RegisterRequest) (*api.RegisterResponse, error)
	Login(context.Context, *api.LoginRequest) (*api.LoginResponse, error)
	Verify(context.Context, *api.VerifyRequest) (*api.VerifyResponse, error)
	ForgotPassword(context.Context, *api.ForgotPasswordRequest) (*api.ForgotPasswordResponse, error)
	ResetPassword(context.Context, *api.ResetPasswordRequest) (*api.ResetPasswordResponse, error)
}

// accountServiceDesc describes accounts.AccountService. Messages are JSON
// (api.Codec), so there is no generated code behind it.
var accountServiceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*accountServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(api.RegisterMethod, accountServer.Register)},
		{MethodName: "Login", Handler: unary(api.LoginMethod, accountServer.Login)},
		{MethodName: "Verify", Handler: unary(api.VerifyMethod, accountServer.Verify)},
		{MethodName: "ForgotPassword", Handler: unary(api.ForgotPasswordMethod, accountServer.ForgotPassword)},
		{MethodName: "ResetPassword", Handler: unary(api.ResetPasswordMethod, accountServer.ResetPassword)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts",
}

// unary adapts a typed handler to grpc.MethodHandler, decoding the request
// and running it through the interceptor chain.
func unary[Req, Resp any](fullMethod string, call func(accountServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(accountServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(accountServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
