package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountauth/internal/api"
	"github.com/dmitrijs2005/accountauth/internal/client/client"
)

// AccountClient is what the commands need from the server.
type AccountClient interface {
	Register(ctx context.Context, email, password string) (*api.RegisterResponse, error)
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Verify(ctx context.Context, token string) (*api.VerifyResponse, error)
	ForgotPassword(ctx context.Context, email string) (*api.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token, password string) (*api.ResetPasswordResponse, error)
}

var errUsage = errors.New("usage")

type App struct {
	client  AccountClient
	timeout time.Duration
	in      *bufio.Reader
	out     io.Writer
}

func NewApp(c AccountClient, timeout time.Duration, in io.Reader, out io.Writer) *App {
	return &App{client: c, timeout: timeout, in: bufio.NewReader(in), out: out}
}

// Run executes a single command given as args. It returns a non-nil error
// when the command could not be completed.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.help()
		return errUsage
	}

	cmd, rest := args[0], args[1:]

	arg := func(name string) (string, error) {
		if len(rest) > 0 && rest[0] != "" {
			return rest[0], nil
		}
		v, err := GetSimpleText(a.in, "Enter "+name, a.out)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", fmt.Errorf("%w: %s <%s>", errUsage, cmd, name)
		}
		return v, nil
	}

	var err error
	switch cmd {
	case "register":
		err = a.register(ctx, arg)
	case "login":
		err = a.login(ctx, arg)
	case "verify":
		err = a.verify(ctx, arg)
	case "forgot":
		err = a.forgot(ctx, arg)
	case "reset":
		err = a.reset(ctx, arg)
	case "help":
		a.help()
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
		a.help()
		return errUsage
	}

	if err != nil {
		a.report(err)
	}
	return err
}

// Root runs the interactive prompt until EOF or "exit".
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Account CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "accounts> ")
		line, err := a.in.ReadString('\n')
		parts := strings.Fields(line)

		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				fmt.Fprintln(a.out, "Bye!")
				return
			default:
				_ = a.Run(ctx, parts)
			}
		}

		if err != nil {
			return
		}
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Available commands: register <email>, login <email>, verify <token>, forgot <email>, reset <token>, help, exit")
}

// report prints a failed command. Server rejections are shown as they are.
func (a *App) report(err error) {
	var rej *client.RejectedError
	switch {
	case errors.As(err, &rej):
		fmt.Fprintln(a.out, rej.Message)
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.out, "Usage error:", err.Error())
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}

func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
