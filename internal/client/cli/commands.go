package cli

import (
	"context"
	"fmt"
)

type argFunc func(name string) (string, error)

func (a *App) register(ctx context.Context, arg argFunc) error {
	email, err := arg("email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (account id %d). Check your mail for the verification token.\n", resp.Message, resp.Data)
	return nil
}

func (a *App) login(ctx context.Context, arg argFunc) error {
	email, err := arg("email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.Data)
	return nil
}

func (a *App) verify(ctx context.Context, arg argFunc) error {
	token, err := arg("token")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.Verify(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) forgot(ctx context.Context, arg argFunc) error {
	email, err := arg("email")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	fmt.Fprintln(a.out, "Reset token:", resp.Data)
	return nil
}

func (a *App) reset(ctx context.Context, arg argFunc) error {
	token, err := arg("token")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", errUsage)
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}
