package services

import (
	"context"

	"github.com/dmitrijs2005/accountauth/internal/server/models"
)

// Notifier hands freshly committed tokens to whoever delivers them.
type Notifier interface {
	Notify(ctx context.Context, event models.TokenEvent) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.TokenEvent) error { return nil }
