package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/shopspring/decimal"
)

type rateService struct {
	rates    repository.RateRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRateService(rates repository.RateRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RateService {
	return &rateService{
		rates:    rates,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// ResolveRate walks the precedence levels from most to least specific and
// returns the first configured rate. A nil rate means nothing is configured.
func (s *rateService) ResolveRate(ctx context.Context, userID, organizationID string, projectID *string) (rate *decimal.Decimal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"organization_id": organizationID, "user_id": userID}
	defer observe(ctx, s.observer, "rate.resolve", startedAt, fields, &err)

	rate, err = resolveFrom(ctx, s.rates, domain.RatePrecedence, rateKey(userID, organizationID, projectID))
	fields["found"] = rate != nil
	return rate, err
}

// ResolveRateBelow resolves as ResolveRate but ignores level and every level
// more specific than it.
func (s *rateService) ResolveRateBelow(ctx context.Context, level domain.RateLevel, userID, organizationID string, projectID *string) (*decimal.Decimal, error) {
	if !level.Valid() {
		return nil, &app.RateError{Code: app.RateErrInvalidLevel, Message: fmt.Sprintf("unknown rate level %q", level)}
	}
	return resolveFrom(ctx, s.rates, level.Below(), rateKey(userID, organizationID, projectID))
}

func rateKey(userID, organizationID string, projectID *string) repository.RateKey {
	key := repository.RateKey{OrganizationID: organizationID, UserID: userID}
	if projectID != nil {
		key.ProjectID = *projectID
	}
	return key
}

func resolveFrom(ctx context.Context, rates repository.RateRepo, levels []domain.RateLevel, key repository.RateKey) (*decimal.Decimal, error) {
	for _, level := range levels {
		rate, err := rates.FindRate(ctx, level, key)
		if err != nil {
			return nil, err
		}
		if rate != nil {
			return rate, nil
		}
	}
	return nil, nil
}

// cascadeScope is what a rate change at one level may touch: the entries
// that could have inherited the old rate, minus those a more specific
// override claims.
type cascadeScope struct {
	filter           repository.EntryFilter
	excludedUsers    map[string]bool
	excludedProjects map[string]bool
}

func (c cascadeScope) excludes(e *domain.TimeEntry) bool {
	if c.excludedUsers[e.UserID] {
		return true
	}
	return e.ProjectID != nil && c.excludedProjects[*e.ProjectID]
}

// ApplyRateChange writes the new rate at the source level and, when asked,
// rewrites the stored entries still carrying the old rate. Everything runs in
// one transaction.
func (s *rateService) ApplyRateChange(ctx context.Context, change app.RateChange) (result *app.RateChangeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"organization_id":   change.OrganizationID,
		"level":             string(change.Level),
		"source_id":         change.SourceID,
		"apply_to_existing": change.ApplyToExisting,
	}
	defer observe(ctx, s.observer, "rate.apply_change", startedAt, fields, &err)

	if !change.Level.Valid() {
		return nil, &app.RateError{Code: app.RateErrInvalidLevel, Message: fmt.Sprintf("unknown rate level %q", change.Level)}
	}
	if change.NewRate != nil && change.NewRate.IsNegative() {
		return nil, &app.RateError{Code: app.RateErrInvalidRate, Message: fmt.Sprintf("rate %s is negative", change.NewRate)}
	}

	result = &app.RateChangeResult{Level: change.Level, SourceID: change.SourceID, NewRate: change.NewRate}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRates := repository.NewSQLiteRateRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)

		scope, err := loadCascadeScope(ctx, tx, change)
		if err != nil {
			return err
		}

		oldRate, err := txRates.GetSourceRate(ctx, change.Level, change.SourceID)
		if err != nil {
			return sourceError(change, err)
		}
		result.OldRate = oldRate

		if err := txRates.SetSourceRate(ctx, change.Level, change.SourceID, change.NewRate); err != nil {
			return sourceError(change, err)
		}
		if !change.ApplyToExisting {
			return nil
		}

		candidates, err := txEntries.Find(ctx, scope.filter)
		if err != nil {
			return fmt.Errorf("finding entries for rate change: %w", err)
		}
		var dependents []*domain.TimeEntry
		for _, e := range candidates {
			if !domain.RatesEqual(e.BillableRate, oldRate) || scope.excludes(e) {
				continue
			}
			dependents = append(dependents, e)
		}

		updated, err := rewriteRates(ctx, txRates, txEntries, change, dependents)
		if err != nil {
			return err
		}
		result.UpdatedEntries = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["updated_entries"] = result.UpdatedEntries
	return result, nil
}

// rewriteRates stores the new rate on dependents. A cleared rate is replaced
// by whatever the less specific levels resolve to for each entry.
func rewriteRates(ctx context.Context, rates repository.RateRepo, entries repository.TimeEntryRepo, change app.RateChange, dependents []*domain.TimeEntry) (int64, error) {
	if change.NewRate != nil {
		var ids []string
		for _, e := range dependents {
			if !domain.RatesEqual(e.BillableRate, change.NewRate) {
				ids = append(ids, e.ID)
			}
		}
		return entries.BulkUpdateRate(ctx, ids, change.NewRate)
	}

	type target struct {
		rate *decimal.Decimal
		ids  []string
	}
	resolved := make(map[repository.RateKey]*decimal.Decimal)
	var targets []*target
	byRate := make(map[string]*target)
	for _, e := range dependents {
		key := rateKey(e.UserID, e.OrganizationID, e.ProjectID)
		rate, ok := resolved[key]
		if !ok {
			var err error
			rate, err = resolveFrom(ctx, rates, change.Level.Below(), key)
			if err != nil {
				return 0, err
			}
			resolved[key] = rate
		}
		if domain.RatesEqual(e.BillableRate, rate) {
			continue
		}
		bucket := domain.NullKey
		if rate != nil {
			bucket = rate.String()
		}
		t, ok := byRate[bucket]
		if !ok {
			t = &target{rate: rate}
			byRate[bucket] = t
			targets = append(targets, t)
		}
		t.ids = append(t.ids, e.ID)
	}

	var total int64
	for _, t := range targets {
		n, err := entries.BulkUpdateRate(ctx, t.ids, t.rate)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// loadCascadeScope reads the source record, checks it belongs to the
// organization and derives the candidate filter and exclusions for its level.
func loadCascadeScope(ctx context.Context, tx db.DBTX, change app.RateChange) (cascadeScope, error) {
	billable := true
	scope := cascadeScope{filter: repository.EntryFilter{OrganizationID: change.OrganizationID, Billable: &billable}}

	switch change.Level {
	case domain.RateLevelProjectMember:
		pm, err := repository.NewSQLiteProjectMemberRepo(tx).GetByID(ctx, change.SourceID)
		if err != nil {
			return scope, sourceError(change, err)
		}
		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, pm.ProjectID)
		if err != nil {
			return scope, sourceError(change, err)
		}
		if err := requireOrganization(change, project.OrganizationID); err != nil {
			return scope, err
		}
		scope.filter.UserIDs = []string{pm.UserID}
		scope.filter.ProjectIDs = []string{pm.ProjectID}

	case domain.RateLevelProject:
		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, change.SourceID)
		if err != nil {
			return scope, sourceError(change, err)
		}
		if err := requireOrganization(change, project.OrganizationID); err != nil {
			return scope, err
		}
		overrides, err := repository.NewSQLiteProjectMemberRepo(tx).ListByProject(ctx, project.ID)
		if err != nil {
			return scope, err
		}
		scope.filter.ProjectIDs = []string{project.ID}
		scope.excludedUsers = make(map[string]bool)
		for _, pm := range overrides {
			if pm.BillableRate != nil {
				scope.excludedUsers[pm.UserID] = true
			}
		}

	case domain.RateLevelOrganizationMember:
		member, err := repository.NewSQLiteMemberRepo(tx).GetByID(ctx, change.SourceID)
		if err != nil {
			return scope, sourceError(change, err)
		}
		if err := requireOrganization(change, member.OrganizationID); err != nil {
			return scope, err
		}
		projects, err := repository.NewSQLiteProjectRepo(tx).ListByOrganization(ctx, change.OrganizationID, true)
		if err != nil {
			return scope, err
		}
		scope.filter.MemberIDs = []string{member.ID}
		scope.excludedProjects = make(map[string]bool)
		for _, p := range projects {
			if p.BillableRate != nil {
				scope.excludedProjects[p.ID] = true
			}
		}

	case domain.RateLevelOrganization:
		if err := requireOrganization(change, change.SourceID); err != nil {
			return scope, err
		}
		if _, err := repository.NewSQLiteOrganizationRepo(tx).GetByID(ctx, change.SourceID); err != nil {
			return scope, sourceError(change, err)
		}
		members, err := repository.NewSQLiteMemberRepo(tx).ListByOrganization(ctx, change.OrganizationID)
		if err != nil {
			return scope, err
		}
		scope.excludedUsers = make(map[string]bool)
		for _, m := range members {
			if m.BillableRate != nil {
				scope.excludedUsers[m.UserID] = true
			}
		}
	}
	return scope, nil
}

func requireOrganization(change app.RateChange, organizationID string) error {
	if organizationID != change.OrganizationID {
		return &app.RateError{
			Code:    app.RateErrSourceNotFound,
			Message: fmt.Sprintf("%s %s does not belong to organization %s", change.Level, change.SourceID, change.OrganizationID),
			Err:     repository.ErrNotFound,
		}
	}
	return nil
}

func sourceError(change app.RateChange, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &app.RateError{
			Code:    app.RateErrSourceNotFound,
			Message: fmt.Sprintf("%s %s not found", change.Level, change.SourceID),
			Err:     err,
		}
	}
	return err
}
