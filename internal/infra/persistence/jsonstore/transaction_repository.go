package jsonstore

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

type transactionRepository struct {
	txns collection[*entity.Transaction]
}

// NewTransactionRepository returns the append-only transaction log.
func NewTransactionRepository(store *Store) repository.TransactionRepository {
	return &transactionRepository{
		txns: newCollection(store, Transactions, TransactionIDPrefix, func(t *entity.Transaction) string { return t.ID }),
	}
}

func (repo *transactionRepository) GetAll(ctx context.Context) ([]*entity.Transaction, error) {
	txns, err := repo.txns.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	return txns, nil
}

func (repo *transactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	txn, ok, err := repo.txns.byID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find transaction")
	}
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}

	return txn, nil
}

func (repo *transactionRepository) GetByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	txns, err := repo.txns.filter(ctx, func(t *entity.Transaction) bool { return t.UserID == userID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user transactions")
	}

	return txns, nil
}

func (repo *transactionRepository) GetByVendor(ctx context.Context, vendorID string) ([]*entity.Transaction, error) {
	txns, err := repo.txns.filter(ctx, func(t *entity.Transaction) bool { return t.VendorID == vendorID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor transactions")
	}

	return txns, nil
}

// Add stamps the date when the caller left it zero.
func (repo *transactionRepository) Add(ctx context.Context, txn *entity.Transaction) (*entity.Transaction, error) {
	var created *entity.Transaction
	err := repo.txns.mutate(ctx, func(txns []*entity.Transaction) ([]*entity.Transaction, error) {
		record := *txn
		record.ID = repo.txns.nextID(txns)
		if record.Date.IsZero() {
			record.Date = repo.txns.now().UTC()
		}
		created = &record

		return append(txns, created), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add transaction")
	}

	return created, nil
}
