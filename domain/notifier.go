package domain

import "context"

type Notifier interface {
	AccountCreated(ctx context.Context, account *Account) error
}
