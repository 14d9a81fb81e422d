package store

import (
	"errors"
	"testing"

	"github.com/classclarus/classroom-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*gorm.DB, *Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.ClassMembership{},
		&models.GuardianLink{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, New(db)
}

type failingOp struct{}

func (failingOp) Apply(tx *gorm.DB) error { return errors.New("boom") }

func TestStore_Transact_AllOrNothing(t *testing.T) {
	db, st := setupStore(t)

	ops := []Op{
		LinkClassRole{ClassID: 1, UserID: 2, Role: models.RoleStudent},
		failingOp{},
		LinkClassRole{ClassID: 1, UserID: 3, Role: models.RoleStudent},
	}
	require.Error(t, st.Transact(ops))

	// The failure rolls back the link that preceded it.
	var count int64
	require.NoError(t, db.Model(&models.ClassMembership{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestStore_Transact_LinksAreIdempotent(t *testing.T) {
	db, st := setupStore(t)

	ops := []Op{
		LinkClassRole{ClassID: 1, UserID: 2, Role: models.RoleStudent},
		LinkGuardian{GuardianID: 5, StudentID: 2},
	}
	require.NoError(t, st.Transact(ops))
	// Replaying a committed transaction is a data-layer no-op.
	require.NoError(t, st.Transact(ops))

	var count int64
	require.NoError(t, db.Model(&models.ClassMembership{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.GuardianLink{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestStore_TransactBatched_PartialFailureKeepsEarlierBatches(t *testing.T) {
	db, st := setupStore(t)

	ops := []Op{
		LinkClassRole{ClassID: 1, UserID: 2, Role: models.RoleStudent},
		LinkClassRole{ClassID: 1, UserID: 3, Role: models.RoleStudent},
		failingOp{},
		LinkClassRole{ClassID: 1, UserID: 4, Role: models.RoleStudent},
	}
	// Batch size 2: the first batch commits, the second fails, the third
	// never runs.
	require.Error(t, st.TransactBatched(ops, 2))

	var count int64
	require.NoError(t, db.Model(&models.ClassMembership{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestStore_Transact_EmptyIsNoOp(t *testing.T) {
	_, st := setupStore(t)
	require.NoError(t, st.Transact(nil))
	require.NoError(t, st.TransactBatched(nil, 100))
}
