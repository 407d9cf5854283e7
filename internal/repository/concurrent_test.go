package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileDB opens a file-backed database so every pooled connection sees
// the same data, which WAL-mode concurrency needs.
func newFileDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestConcurrentAccess_FindDuringWrites(t *testing.T) {
	database := newFileDB(t)
	ctx := context.Background()

	org := testutil.NewTestOrganization("Acme")
	require.NoError(t, NewSQLiteOrganizationRepo(database).Create(ctx, org))
	user := testutil.NewTestUser("Ada")
	require.NoError(t, NewSQLiteUserRepo(database).Create(ctx, user))
	member := testutil.NewTestMember(org.ID, user.ID)
	require.NoError(t, NewSQLiteMemberRepo(database).Create(ctx, member))

	entries := NewSQLiteTimeEntryRepo(database)
	const writes = 20

	var wg sync.WaitGroup
	errs := make(chan error, writes+50)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			if err := entries.Create(ctx, testutil.NewTestEntry(member)); err != nil {
				errs <- err
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if _, err := entries.Find(ctx, EntryFilter{OrganizationID: org.ID}); err != nil {
					errs <- err
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	all, err := entries.Find(ctx, EntryFilter{OrganizationID: org.ID})
	require.NoError(t, err)
	assert.Len(t, all, writes)
}
