package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertOrg = `INSERT INTO organizations (id, name, created_at, updated_at)
	VALUES (?, ?, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func orgName(t *testing.T, uow *db.SQLiteUnitOfWork, id string) (string, bool) {
	t.Helper()
	var name string
	var found bool
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT name FROM organizations WHERE id = ?`, id).Scan(&name); err != nil {
			return nil
		}
		found = true
		return nil
	})
	require.NoError(t, err)
	return name, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertOrg, "o1", "Acme")
		return err
	})
	require.NoError(t, err)

	name, found := orgName(t, uow, "o1")
	assert.True(t, found)
	assert.Equal(t, "Acme", name)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	errBoom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertOrg, "o2", "Globex"); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, found := orgName(t, uow, "o2")
	assert.False(t, found, "insert must be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertOrg, "o3", "Initech")
			panic("boom")
		})
	})

	_, found := orgName(t, uow, "o3")
	assert.False(t, found, "insert must be rolled back after panic")
}

func TestWithinTx_PartialWritesRolledBack(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertOrg, "o4", "First"); err != nil {
			return err
		}
		// Duplicate primary key fails the second write.
		_, err := tx.ExecContext(ctx, insertOrg, "o4", "Second")
		return err
	})
	require.Error(t, err)

	_, found := orgName(t, uow, "o4")
	assert.False(t, found)
}

type countingDBTX struct {
	db.DBTX
	execs int
}

func (c *countingDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.execs++
	return c.DBTX.ExecContext(ctx, query, args...)
}

func TestWithinTx_WrapperSeesEveryWrite(t *testing.T) {
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	counter := &countingDBTX{}
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		counter.DBTX = tx
		return counter
	}))

	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		for _, id := range []string{"o5", "o6"} {
			if _, err := tx.ExecContext(ctx, insertOrg, id, "Org "+id); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, counter.execs)

	_, found := orgName(t, uow, "o6")
	assert.True(t, found)
}

func TestWithinTx_CanceledContext(t *testing.T) {
	uow := newUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
