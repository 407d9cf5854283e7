package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) entryService() TimeEntryService {
	return NewTimeEntryService(h.members, h.projects, h.entries, h.rateService(), h.uow)
}

func requireEntryError(t *testing.T, err error, code app.EntryErrorCode) {
	t.Helper()
	var entryErr *app.EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, code, entryErr.Code)
}

func TestStartEntry_SnapshotsResolvedRate(t *testing.T) {
	h := newHarness(t)
	org := h.org(testutil.WithOrgRate(testutil.Rate("50")))
	m := h.member(org, "Mia", testutil.WithMemberRate(testutil.Rate("80")))
	billed := h.project(org, "Website", testutil.WithBillableDefault(true))
	svc := h.entryService()
	ctx := context.Background()

	req := app.NewStartEntryRequest(org.ID, m.UserID)
	req.ProjectID = &billed.ID
	entry, err := svc.Start(ctx, req)
	require.NoError(t, err)
	assert.True(t, entry.IsRunning())
	assert.True(t, entry.Billable, "project default applies")
	assert.Equal(t, "80", entry.BillableRate.String())
	assert.Equal(t, m.ID, entry.MemberID)

	stored, err := svc.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "80", stored.BillableRate.String())
}

func TestStartEntry_NonBillableHasNoRate(t *testing.T) {
	h := newHarness(t)
	org := h.org(testutil.WithOrgRate(testutil.Rate("50")))
	m := h.member(org, "Mia")
	billed := h.project(org, "Website", testutil.WithBillableDefault(true))

	req := app.NewStartEntryRequest(org.ID, m.UserID)
	req.ProjectID = &billed.ID
	req.Billable = ptr(false)
	entry, err := h.entryService().Start(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, entry.Billable)
	assert.Nil(t, entry.BillableRate)
}

func TestStartEntry_Errors(t *testing.T) {
	h := newHarness(t)
	org := h.org()
	other := h.org()
	m := h.member(org, "Mia")
	stranger := h.member(other, "Eve")
	foreign := h.project(other, "Foreign")
	svc := h.entryService()
	ctx := context.Background()

	_, err := svc.Start(ctx, app.NewStartEntryRequest(org.ID, stranger.UserID))
	requireEntryError(t, err, app.EntryErrNotMember)

	req := app.NewStartEntryRequest(org.ID, m.UserID)
	req.ProjectID = &foreign.ID
	_, err = svc.Start(ctx, req)
	requireEntryError(t, err, app.EntryErrNotFound)

	req = app.NewStartEntryRequest(org.ID, m.UserID)
	end := req.Start.Add(-time.Minute)
	req.End = &end
	_, err = svc.Start(ctx, req)
	requireEntryError(t, err, app.EntryErrInvalidTime)

	_, err = svc.Start(ctx, app.NewStartEntryRequest(org.ID, m.UserID))
	require.NoError(t, err)
	_, err = svc.Start(ctx, app.NewStartEntryRequest(org.ID, m.UserID))
	requireEntryError(t, err, app.EntryErrAlreadyRunning)

	// A completed entry can still be recorded while one is running.
	req = app.NewStartEntryRequest(org.ID, m.UserID)
	req.Start = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end = req.Start.Add(time.Hour)
	req.End = &end
	entry, err := svc.Start(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), entry.DurationSeconds())
}

func TestStopEntry(t *testing.T) {
	h := newHarness(t)
	org := h.org()
	m := h.member(org, "Mia")
	svc := h.entryService()
	ctx := context.Background()

	_, err := svc.Stop(ctx, org.ID, m.UserID, time.Now())
	requireEntryError(t, err, app.EntryErrNotRunning)

	req := app.NewStartEntryRequest(org.ID, m.UserID)
	req.Start = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	started, err := svc.Start(ctx, req)
	require.NoError(t, err)

	_, err = svc.Stop(ctx, org.ID, m.UserID, req.Start.Add(-time.Second))
	requireEntryError(t, err, app.EntryErrInvalidTime)

	stopped, err := svc.Stop(ctx, org.ID, m.UserID, req.Start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, started.ID, stopped.ID)
	assert.Equal(t, int64(5400), stopped.DurationSeconds())

	_, err = svc.Stop(ctx, org.ID, m.UserID, time.Now())
	requireEntryError(t, err, app.EntryErrNotRunning)
}

func TestUpdateEntry_BillableTransitions(t *testing.T) {
	h := newHarness(t)
	org := h.org(testutil.WithOrgRate(testutil.Rate("50")))
	m := h.member(org, "Mia")
	p := h.project(org, "Website", testutil.WithProjectRate(testutil.Rate("120")))
	e := h.entry(m, testutil.WithProject(p.ID))
	svc := h.entryService()
	ctx := context.Background()

	updated, err := svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, Billable: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Billable)
	assert.Equal(t, "120", updated.BillableRate.String(), "flipping to billable resolves the rate")

	updated, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, BillableRate: testutil.Rate("99.5")})
	require.NoError(t, err)
	assert.Equal(t, "99.5", updated.BillableRate.String())

	updated, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, Billable: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "99.5", updated.BillableRate.String(), "staying billable keeps the snapshot")

	updated, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, Billable: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Billable)
	assert.Nil(t, updated.BillableRate)
	assert.Equal(t, "nil", h.rateOf(e))

	_, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, BillableRate: testutil.Rate("10")})
	requireEntryError(t, err, app.EntryErrInvalidRate)

	_, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, Billable: ptr(true), BillableRate: testutil.Rate("-1")})
	requireEntryError(t, err, app.EntryErrInvalidRate)

	updated, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, Billable: ptr(true), BillableRate: testutil.Rate("75")})
	require.NoError(t, err)
	assert.Equal(t, "75", updated.BillableRate.String(), "an explicit rate skips resolution")
}

func TestUpdateEntry_Fields(t *testing.T) {
	h := newHarness(t)
	org := h.org()
	m := h.member(org, "Mia")
	p := h.project(org, "Website")
	tag := testutil.NewTestTag(org.ID, "urgent")
	require.NoError(t, h.tags.Create(context.Background(), tag))
	e := h.entry(m, testutil.WithProject(p.ID), testutil.WithTags(tag.ID))
	svc := h.entryService()
	ctx := context.Background()

	end := e.Start.Add(2 * time.Hour)
	updated, err := svc.Update(ctx, app.UpdateEntryRequest{
		ID:          e.ID,
		ProjectID:   ptr(""),
		Description: ptr("planning"),
		End:         &end,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ProjectID)
	assert.Equal(t, "planning", updated.Description)
	assert.Equal(t, int64(7200), updated.DurationSeconds())

	stored, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{tag.ID}, stored.TagIDs)
	assert.Nil(t, stored.ProjectID)

	before := e.Start.Add(-time.Hour)
	_, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, End: &before})
	requireEntryError(t, err, app.EntryErrInvalidTime)

	_, err = svc.Update(ctx, app.UpdateEntryRequest{ID: "missing"})
	requireEntryError(t, err, app.EntryErrNotFound)
}

func TestUpdateEntry_ProjectMustBelongToOrganization(t *testing.T) {
	h := newHarness(t)
	org := h.org()
	other := h.org()
	m := h.member(org, "Mia")
	p := h.project(org, "Website")
	foreign := h.project(other, "Foreign")
	e := h.entry(m, testutil.WithProject(p.ID))
	svc := h.entryService()
	ctx := context.Background()

	_, err := svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, ProjectID: &foreign.ID})
	requireEntryError(t, err, app.EntryErrNotFound)

	_, err = svc.Update(ctx, app.UpdateEntryRequest{ID: e.ID, ProjectID: ptr("missing")})
	requireEntryError(t, err, app.EntryErrNotFound)

	stored, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProjectID)
	assert.Equal(t, p.ID, *stored.ProjectID)
}

func TestStartEntry_RateIsNotRewrittenByLaterResolution(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	org := h.org(testutil.WithOrgRate(testutil.Rate("50")))
	m := h.member(org, "Mia")
	svc := h.entryService()

	req := app.NewStartEntryRequest(org.ID, m.UserID)
	req.Billable = ptr(true)
	entry, err := svc.Start(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "50", entry.BillableRate.String())

	_, err = h.rateService().ApplyRateChange(ctx, app.RateChange{
		OrganizationID: org.ID,
		Level:          domain.RateLevelOrganization,
		SourceID:       org.ID,
		NewRate:        testutil.Rate("70"),
	})
	require.NoError(t, err)
	assert.Equal(t, "50", h.rateOf(entry), "snapshots only move when changes are applied to existing entries")
}
