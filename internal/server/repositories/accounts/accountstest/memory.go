// Package accountstest provides an in-memory accounts.Repository for tests
// of the layers above the store.
package accountstest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountauth/internal/common"
	"github.com/dmitrijs2005/accountauth/internal/server/models"
	"github.com/dmitrijs2005/accountauth/internal/server/repositories/accounts"
)

var _ accounts.Repository = (*Repository)(nil)

// Repository keeps accounts in a map and hands out copies, so callers can
// only change stored state through Insert and Save. It is safe for
// concurrent use but has no transactional isolation.
type Repository struct {
	mu     sync.Mutex
	nextID models.AccountID
	rows   map[models.AccountID]*models.Account

	fail             map[string]error
	takenResetTokens map[string]bool
	saves            int
}

func New() *Repository {
	return &Repository{
		rows:             map[models.AccountID]*models.Account{},
		fail:             map[string]error{},
		takenResetTokens: map[string]bool{},
	}
}

// Fail makes the named method return err from now on.
func (r *Repository) Fail(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[method] = err
}

// TakeResetToken makes ExistsByResetToken report token as in use.
func (r *Repository) TakeResetToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takenResetTokens[token] = true
}

// Saves returns how many times Save succeeded.
func (r *Repository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Len returns the number of stored accounts.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Get returns a copy of the stored account or fails the test.
func (r *Repository) Get(t testing.TB, id models.AccountID) *models.Account {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		t.Fatalf("account %d not stored", id)
	}
	return clone(a)
}

func clone(a *models.Account) *models.Account {
	c := *a
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	c.PasswordSalt = append([]byte(nil), a.PasswordSalt...)
	if a.VerifiedAt != nil {
		v := *a.VerifiedAt
		c.VerifiedAt = &v
	}
	if a.PasswordResetToken != nil {
		v := *a.PasswordResetToken
		c.PasswordResetToken = &v
	}
	if a.ResetTokenExpires != nil {
		v := *a.ResetTokenExpires
		c.ResetTokenExpires = &v
	}
	return &c
}

func (r *Repository) find(method string, match func(*models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[method]; err != nil {
		return nil, err
	}
	for _, a := range r.rows {
		if match(a) {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *Repository) exists(method string, find func() (*models.Account, error)) (bool, error) {
	r.mu.Lock()
	err := r.fail[method]
	r.mu.Unlock()
	if err != nil {
		return false, err
	}
	_, err = find()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *Repository) FindByEmailCaseInsensitive(_ context.Context, email string) (*models.Account, error) {
	return r.find("FindByEmailCaseInsensitive", func(a *models.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *Repository) FindByEmailExact(_ context.Context, email string) (*models.Account, error) {
	return r.find("FindByEmailExact", func(a *models.Account) bool { return a.Email == email })
}

func (r *Repository) FindByVerificationToken(_ context.Context, token string) (*models.Account, error) {
	return r.find("FindByVerificationToken", func(a *models.Account) bool { return a.VerificationToken == token })
}

func (r *Repository) FindByResetToken(_ context.Context, token string) (*models.Account, error) {
	return r.find("FindByResetToken", func(a *models.Account) bool {
		return a.PasswordResetToken != nil && *a.PasswordResetToken == token
	})
}

func (r *Repository) ExistsByEmailCaseInsensitive(ctx context.Context, email string) (bool, error) {
	return r.exists("ExistsByEmailCaseInsensitive", func() (*models.Account, error) {
		return r.FindByEmailCaseInsensitive(ctx, email)
	})
}

func (r *Repository) ExistsByResetToken(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	taken := r.takenResetTokens[token]
	r.mu.Unlock()
	if taken {
		return true, nil
	}
	return r.exists("ExistsByResetToken", func() (*models.Account, error) {
		return r.FindByResetToken(ctx, token)
	})
}

func (r *Repository) Insert(_ context.Context, a *models.Account) (models.AccountID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail["Insert"]; err != nil {
		return 0, err
	}
	for _, existing := range r.rows {
		if strings.EqualFold(existing.Email, a.Email) {
			return 0, common.ErrorAlreadyExists
		}
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now().UTC()
	r.rows[a.ID] = clone(a)
	return a.ID, nil
}

func (r *Repository) Save(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail["Save"]; err != nil {
		return err
	}
	if _, ok := r.rows[a.ID]; !ok {
		return common.ErrorNotFound
	}
	r.saves++
	r.rows[a.ID] = clone(a)
	return nil
}
