package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

// ErrTransactionNotFound is returned when a transaction is not found.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository persists payment records. It is append-only: there is
// no update or delete.
type TransactionRepository interface {
	GetAll(ctx context.Context) ([]*entity.Transaction, error)
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	GetByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)
	GetByVendor(ctx context.Context, vendorID string) ([]*entity.Transaction, error)
	Add(ctx context.Context, txn *entity.Transaction) (*entity.Transaction, error)
}
