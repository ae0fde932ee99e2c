// Package accounts is the User Store: persistence of accounts behind a
// narrow read/write contract. Lookups that miss return common.ErrorNotFound.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountauth/internal/server/models"
)

type Repository interface {
	FindByEmailCaseInsensitive(ctx context.Context, email string) (*models.Account, error)
	FindByEmailExact(ctx context.Context, email string) (*models.Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.Account, error)
	// FindByResetToken locks the matched row until the surrounding
	// transaction ends.
	FindByResetToken(ctx context.Context, token string) (*models.Account, error)

	ExistsByEmailCaseInsensitive(ctx context.Context, email string) (bool, error)
	ExistsByResetToken(ctx context.Context, token string) (bool, error)

	// Insert stores a new account, filling in ID and CreatedAt. A duplicate
	// email yields common.ErrorAlreadyExists.
	Insert(ctx context.Context, account *models.Account) (models.AccountID, error)
	// Save persists every mutable field of an existing account.
	Save(ctx context.Context, account *models.Account) error
}
