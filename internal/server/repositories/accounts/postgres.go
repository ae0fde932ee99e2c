package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountauth/internal/common"
	"github.com/dmitrijs2005/accountauth/internal/dbx"
	"github.com/dmitrijs2005/accountauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectAccount = `SELECT id, email, password_hash, password_salt, verified_at,
		 verification_token, password_reset_token, reset_token_expires, created_at
		 FROM accounts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmailCaseInsensitive(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`
		 WHERE lower(email) = lower($1)
		 `, email)
}

func (r *PostgresRepository) FindByEmailExact(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`
		 WHERE email = $1
		 `, email)
}

func (r *PostgresRepository) FindByVerificationToken(ctx context.Context, token string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`
		 WHERE verification_token = $1
		 `, token)
}

func (r *PostgresRepository) FindByResetToken(ctx context.Context, token string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+`
		 WHERE password_reset_token = $1
		 FOR UPDATE
		 `, token)
}

func (r *PostgresRepository) ExistsByEmailCaseInsensitive(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1))`, email)
}

func (r *PostgresRepository) ExistsByResetToken(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE password_reset_token = $1)`, token)
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) (models.AccountID, error) {
	query :=
		`INSERT INTO accounts (email, password_hash, password_salt, verified_at,
		 verification_token, password_reset_token, reset_token_expires)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.Email, a.PasswordHash, a.PasswordSalt, a.VerifiedAt,
		a.VerificationToken, a.PasswordResetToken, a.ResetTokenExpires,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return a.ID, nil
}

func (r *PostgresRepository) Save(ctx context.Context, a *models.Account) error {
	query :=
		`UPDATE accounts SET email = $2, password_hash = $3, password_salt = $4,
		 verified_at = $5, verification_token = $6,
		 password_reset_token = $7, reset_token_expires = $8
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.PasswordSalt, a.VerifiedAt,
		a.VerificationToken, a.PasswordResetToken, a.ResetTokenExpires,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a          models.Account
		verifiedAt sql.NullTime
		resetToken sql.NullString
		expires    sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.PasswordSalt, &verifiedAt,
		&a.VerificationToken, &resetToken, &expires, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if verifiedAt.Valid {
		a.VerifiedAt = &verifiedAt.Time
	}
	if resetToken.Valid && expires.Valid {
		a.SetResetToken(resetToken.String, expires.Time)
	}

	return &a, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}
