// Package client is the gRPC client of the account service.
//
// Rejections come back from the server as InvalidArgument; they are
// returned as *RejectedError carrying the server's message, so callers can
// tell them apart from transport problems with errors.As.
package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/accountauth/internal/api"
)

var (
	ErrUnavailable = errors.New("server unavailable")
)

// RejectedError is a request the server refused: a business rejection or
// invalid input. Message is meant for the user.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

type GRPCClient struct {
	conn grpc.ClientConnInterface
	// closer is set when the client owns the connection.
	closer func() error
}

// New dials endpointURL lazily. The connection uses the JSON codec.
func New(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, closer: conn.Close}, nil
}

// NewFromConn wraps an existing connection. Close does not close it.
func NewFromConn(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{conn: cc}
}

func (c *GRPCClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *GRPCClient) Register(ctx context.Context, email, password string) (*api.RegisterResponse, error) {
	return call[api.RegisterResponse](ctx, c, api.RegisterMethod, &api.RegisterRequest{Email: email, Password: password})
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	return call[api.LoginResponse](ctx, c, api.LoginMethod, &api.LoginRequest{Email: email, Password: password})
}

func (c *GRPCClient) Verify(ctx context.Context, token string) (*api.VerifyResponse, error) {
	return call[api.VerifyResponse](ctx, c, api.VerifyMethod, &api.VerifyRequest{Token: token})
}

func (c *GRPCClient) ForgotPassword(ctx context.Context, email string) (*api.ForgotPasswordResponse, error) {
	return call[api.ForgotPasswordResponse](ctx, c, api.ForgotPasswordMethod, &api.ForgotPasswordRequest{Email: email})
}

func (c *GRPCClient) ResetPassword(ctx context.Context, token, password string) (*api.ResetPasswordResponse, error) {
	return call[api.ResetPasswordResponse](ctx, c, api.ResetPasswordMethod, &api.ResetPasswordRequest{Token: token, Password: password})
}

func call[Resp any](ctx context.Context, c *GRPCClient, method string, req any) (*Resp, error) {
	out := new(Resp)
	if err := c.conn.Invoke(ctx, method, req, out, grpc.CallContentSubtype(api.CodecName)); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return &RejectedError{Message: st.Message()}
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
