// Package services contains server-side business logic. AccountService
// owns the account state machine: registration, login, email verification
// and password reset.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountauth/internal/common"
	"github.com/dmitrijs2005/accountauth/internal/cryptox"
	"github.com/dmitrijs2005/accountauth/internal/dbx"
	"github.com/dmitrijs2005/accountauth/internal/logging"
	"github.com/dmitrijs2005/accountauth/internal/server/config"
	"github.com/dmitrijs2005/accountauth/internal/server/models"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/repomanager"
)

// maxTokenAttempts bounds the collision retry of token generation.
const maxTokenAttempts = 10

// AccountService implements the five account operations. Each operation
// runs against the store in a single transaction and returns a Result for
// business outcomes and an error for infrastructure failures.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	logger      logging.Logger

	now      func() time.Time
	newToken func() (string, error)

	resetTokenTTL            time.Duration
	caseSensitiveResetLookup bool
}

type Option func(*AccountService)

// WithNotifier sets the receiver of committed verification and reset tokens.
func WithNotifier(n Notifier) Option {
	return func(s *AccountService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *AccountService) {
		if l != nil {
			s.logger = l.With("module", "account_service")
		}
	}
}

// WithClock overrides the time source used for verification and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAccountService constructs an AccountService over the given database
// and repositories.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *AccountService {
	s := &AccountService{
		db:                       db,
		repomanager:              m,
		notifier:                 nopNotifier{},
		logger:                   logging.Nop{},
		now:                      func() time.Time { return time.Now().UTC() },
		newToken:                 func() (string, error) { return common.MakeRandHexString(common.RandomTokenSize) },
		resetTokenTTL:            cfg.ResetTokenTTL,
		caseSensitiveResetLookup: cfg.CaseSensitiveResetLookup,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account with a fresh credential and
// verification token. Emails are unique regardless of case.
func (s *AccountService) Register(ctx context.Context, email, password string) (Result[models.AccountID], error) {
	email = normalizeEmail(email)

	var created *models.Account

	res, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (Result[models.AccountID], error) {
		repo := s.repomanager.Accounts(tx)

		exists, err := repo.ExistsByEmailCaseInsensitive(ctx, email)
		if err != nil {
			return Result[models.AccountID]{}, fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return Reject[models.AccountID](MsgUserAlreadyExists), nil
		}

		token, err := s.generateToken(ctx, repo)
		if err != nil {
			return Result[models.AccountID]{}, err
		}

		hash, salt := cryptox.HashPassword(password)
		account := &models.Account{
			Email:             email,
			PasswordHash:      hash,
			PasswordSalt:      salt,
			VerificationToken: token,
		}

		id, err := repo.Insert(ctx, account)
		if err != nil {
			// a concurrent registration won the unique index; the
			// transaction is aborted, so leave it through the error path
			if errors.Is(err, common.ErrorAlreadyExists) {
				return Result[models.AccountID]{}, err
			}
			return Result[models.AccountID]{}, fmt.Errorf("error creating account: %w", err)
		}

		created = account
		return Succeed(id, MsgRegistrationSuccessful), nil
	})

	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return Reject[models.AccountID](MsgUserAlreadyExists), nil
		}
		return Result[models.AccountID]{}, err
	}

	if created != nil {
		s.notify(ctx, models.TokenEvent{
			Kind:      models.VerificationIssued,
			AccountID: created.ID,
			Email:     created.Email,
			Token:     created.VerificationToken,
		})
	}

	return res, nil
}

// Login checks, in order: the account exists, the password matches, the
// account is verified. The first failing check decides the message.
func (s *AccountService) Login(ctx context.Context, email, password string) (Result[string], error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByEmailCaseInsensitive(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Reject[string](MsgUserNotFound), nil
		}
		return Result[string]{}, fmt.Errorf("error searching account: %w", err)
	}

	if !cryptox.VerifyPassword(password, account.PasswordHash, account.PasswordSalt) {
		return Reject[string](MsgWrongPassword), nil
	}

	if !account.IsVerified() {
		return Reject[string](MsgUserNotVerified), nil
	}

	greeting := fmt.Sprintf("Welcome back %s!", account.Email)
	return Succeed(greeting, greeting), nil
}

// Verify marks the account owning token as verified. VerifiedAt is set only
// the first time; later calls with the same token succeed without a write.
func (s *AccountService) Verify(ctx context.Context, token string) (Result[bool], error) {
	return dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (Result[bool], error) {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.FindByVerificationToken(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return Reject[bool](MsgVerificationFailed), nil
			}
			return Result[bool]{}, fmt.Errorf("error searching account: %w", err)
		}

		if !cryptox.EqualTokens(account.VerificationToken, token) {
			return Reject[bool](MsgVerificationFailed), nil
		}

		if account.IsVerified() {
			return Succeed(true, MsgVerificationSuccessful), nil
		}

		now := s.now()
		account.VerifiedAt = &now

		if err := repo.Save(ctx, account); err != nil {
			return Result[bool]{}, fmt.Errorf("error saving account: %w", err)
		}

		return Succeed(true, MsgVerificationSuccessful), nil
	})
}

// ForgotPassword issues a reset token valid for the configured TTL. Any
// earlier token of the account is superseded.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (Result[string], error) {
	email = normalizeEmail(email)

	var issued *models.Account

	res, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (Result[string], error) {
		repo := s.repomanager.Accounts(tx)

		find := repo.FindByEmailCaseInsensitive
		if s.caseSensitiveResetLookup {
			find = repo.FindByEmailExact
		}

		account, err := find(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return Reject[string](MsgUserNotFound), nil
			}
			return Result[string]{}, fmt.Errorf("error searching account: %w", err)
		}

		token, err := s.generateToken(ctx, repo)
		if err != nil {
			return Result[string]{}, err
		}

		account.SetResetToken(token, s.now().Add(s.resetTokenTTL))

		if err := repo.Save(ctx, account); err != nil {
			return Result[string]{}, fmt.Errorf("error saving account: %w", err)
		}

		issued = account
		return Succeed(token, MsgResetTokenIssued), nil
	})

	if err != nil {
		return Result[string]{}, err
	}

	if issued != nil {
		s.notify(ctx, models.TokenEvent{
			Kind:      models.PasswordResetIssued,
			AccountID: issued.ID,
			Email:     issued.Email,
			Token:     *issued.PasswordResetToken,
			ExpiresAt: issued.ResetTokenExpires,
		})
	}

	return res, nil
}

// ResetPassword replaces the credential of the account owning an unexpired
// reset token and consumes the token.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) (Result[models.AccountID], error) {
	return dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (Result[models.AccountID], error) {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.FindByResetToken(ctx, token)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return Result[models.AccountID]{}, fmt.Errorf("error searching account: %w", err)
		}

		if account == nil ||
			account.PasswordResetToken == nil ||
			!cryptox.EqualTokens(*account.PasswordResetToken, token) ||
			account.ResetTokenExpired(s.now()) {
			return Reject[models.AccountID](MsgResetRejected), nil
		}

		account.PasswordHash, account.PasswordSalt = cryptox.HashPassword(newPassword)
		account.ClearResetToken()

		if err := repo.Save(ctx, account); err != nil {
			return Result[models.AccountID]{}, fmt.Errorf("error saving account: %w", err)
		}

		return Succeed(account.ID, MsgPasswordReset), nil
	})
}

// generateToken draws random tokens until one is not in use as a reset
// token and returns that one.
func (s *AccountService) generateToken(ctx context.Context, repo accounts.Repository) (string, error) {
	for range maxTokenAttempts {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("error generating token: %w", err)
		}

		taken, err := repo.ExistsByResetToken(ctx, token)
		if err != nil {
			return "", fmt.Errorf("error checking token: %w", err)
		}
		if !taken {
			return token, nil
		}
		s.logger.Debug(ctx, "token collision, retrying")
	}
	return "", common.ErrTokenGeneration
}

// notify runs after commit, so a delivery failure cannot undo the state
// change; it is logged and dropped.
func (s *AccountService) notify(ctx context.Context, event models.TokenEvent) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn(ctx, "token notification failed",
			"type", string(event.Kind), "account_id", event.AccountID, "error", err.Error())
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
