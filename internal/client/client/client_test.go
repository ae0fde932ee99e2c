package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/accountauth/internal/api"
)

// fakeConn records the last Invoke and answers with a canned reply.
type fakeConn struct {
	method string
	req    any
	opts   []grpc.CallOption

	reply func(out any)
	err   error
}

func (f *fakeConn) Invoke(_ context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	f.method, f.req, f.opts = method, args, opts
	if f.err != nil {
		return f.err
	}
	if f.reply != nil {
		f.reply(reply)
	}
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not supported")
}

func TestGRPCClient_Register(t *testing.T) {
	fc := &fakeConn{reply: func(out any) {
		*out.(*api.RegisterResponse) = api.RegisterResponse{Success: true, Message: "Registration successful", Data: 5}
	}}
	c := NewFromConn(fc)

	resp, err := c.Register(context.Background(), "a@b.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Data)
	assert.Equal(t, api.RegisterMethod, fc.method)
	assert.Equal(t, &api.RegisterRequest{Email: "a@b.io", Password: "pw"}, fc.req)

	require.Len(t, fc.opts, 1)
	sub, ok := fc.opts[0].(grpc.ContentSubtypeCallOption)
	require.True(t, ok)
	assert.Equal(t, api.CodecName, sub.ContentSubtype)
}

func TestGRPCClient_Methods(t *testing.T) {
	fc := &fakeConn{}
	c := NewFromConn(fc)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@b.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, api.LoginMethod, fc.method)

	_, err = c.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, api.VerifyMethod, fc.method)
	assert.Equal(t, &api.VerifyRequest{Token: "tok"}, fc.req)

	_, err = c.ForgotPassword(ctx, "a@b.io")
	require.NoError(t, err)
	assert.Equal(t, api.ForgotPasswordMethod, fc.method)

	_, err = c.ResetPassword(ctx, "tok", "new")
	require.NoError(t, err)
	assert.Equal(t, api.ResetPasswordMethod, fc.method)
	assert.Equal(t, &api.ResetPasswordRequest{Token: "tok", Password: "new"}, fc.req)

	assert.NoError(t, c.Close())
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	var rej *RejectedError
	err := mapError(status.Error(codes.InvalidArgument, "User not found."))
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "User not found.", rej.Message)

	assert.ErrorIs(t, mapError(status.Error(codes.Unavailable, "down")), ErrUnavailable)
	assert.ErrorIs(t, mapError(status.Error(codes.DeadlineExceeded, "slow")), ErrUnavailable)

	err = mapError(status.Error(codes.Internal, "internal error"))
	assert.False(t, errors.As(err, &rej))
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestNew_ClosesOwnConnection(t *testing.T) {
	c, err := New("passthrough:///127.0.0.1:1")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
