// Package store applies ordered lists of typed link/unlink/delete operations
// atomically. Handlers never touch gorm directly for writes; they assemble an
// op list and commit it in one call so a concurrent read never observes a
// half-applied membership.
package store

import (
	"gorm.io/gorm"
)

// Op is one write in a transaction: a link, unlink, field update or delete,
// tagged by entity and relation.
type Op interface {
	Apply(tx *gorm.DB) error
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transact applies all ops inside a single database transaction. Either every
// op lands or none does.
func (s *Store) Transact(ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := op.Apply(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// TransactBatched splits ops into sequential fixed-size transactions to stay
// under per-transaction operation limits. A failure partway through leaves
// earlier batches committed; every op is idempotent, so re-deriving and
// re-running the remaining work is the recovery path.
func (s *Store) TransactBatched(ops []Op, batchSize int) error {
	for start := 0; start < len(ops); start += batchSize {
		end := start + batchSize
		if end > len(ops) {
			end = len(ops)
		}
		if err := s.Transact(ops[start:end]); err != nil {
			return err
		}
	}
	return nil
}
