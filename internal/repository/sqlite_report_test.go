package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(orgID string) *domain.Report {
	now := time.Now().UTC().Truncate(time.Second)
	billable := true
	return &domain.Report{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           "January",
		Properties: domain.ReportProperties{
			Group:      domain.GroupProjects,
			SubGroup:   domain.GroupMembers,
			StartDate:  "2024-01-01",
			EndDate:    "2024-01-31",
			ProjectIDs: []string{"p1", "p2"},
			Billable:   &billable,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestReportRepo_CreateAndGet(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteReportRepo(w.db)
	ctx := context.Background()

	rep := newTestReport(w.org.ID)
	require.NoError(t, repo.Create(ctx, rep))

	fetched, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.Properties, fetched.Properties)
	assert.False(t, fetched.IsPublic)
	assert.Nil(t, fetched.ShareSecret)

	var stored string
	require.NoError(t, w.db.QueryRow(`SELECT properties FROM reports WHERE id = ?`, rep.ID).Scan(&stored))
	assert.Contains(t, stored, `"projects":"p1,p2"`)
}

func TestReportRepo_ShareSecret(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteReportRepo(w.db)
	ctx := context.Background()

	rep := newTestReport(w.org.ID)
	require.NoError(t, repo.Create(ctx, rep))

	secret := "f00d"
	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rep.IsPublic = true
	rep.ShareSecret = &secret
	rep.PublicUntil = &until
	require.NoError(t, repo.Update(ctx, rep))

	fetched, err := repo.GetByShareSecret(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, fetched.ID)
	require.NotNil(t, fetched.PublicUntil)
	assert.True(t, until.Equal(*fetched.PublicUntil))

	_, err = repo.GetByShareSecret(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByShareSecret(ctx, "beef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepo_ListAndDelete(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteReportRepo(w.db)
	ctx := context.Background()

	a := newTestReport(w.org.ID)
	b := newTestReport(w.org.ID)
	b.Name = "February"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	reports, err := repo.ListByOrganization(ctx, w.org.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), ErrNotFound)
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
