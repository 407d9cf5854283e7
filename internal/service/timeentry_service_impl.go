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
	"github.com/google/uuid"
)

type timeEntryService struct {
	members  repository.MemberRepo
	projects repository.ProjectRepo
	entries  repository.TimeEntryRepo
	rates    app.RateResolver
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTimeEntryService(
	members repository.MemberRepo,
	projects repository.ProjectRepo,
	entries repository.TimeEntryRepo,
	rates app.RateResolver,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TimeEntryService {
	return &timeEntryService{
		members:  members,
		projects: projects,
		entries:  entries,
		rates:    rates,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Start records a new entry. Without an end it becomes the member's running
// entry, and a member can only have one. Billable entries snapshot the rate
// resolved at creation.
func (s *timeEntryService) Start(ctx context.Context, req app.StartEntryRequest) (entry *domain.TimeEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"organization_id": req.OrganizationID, "user_id": req.UserID, "running": req.End == nil}
	defer observe(ctx, s.observer, "entry.create", startedAt, fields, &err)

	member, err := s.member(ctx, req.OrganizationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.End != nil && req.End.Before(req.Start) {
		return nil, &app.EntryError{Code: app.EntryErrInvalidTime, Message: "end is before start"}
	}

	billableDefault := false
	if req.ProjectID != nil {
		project, err := s.project(ctx, req.OrganizationID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		billableDefault = project.IsBillable
	}

	now := time.Now().UTC()
	entry = &domain.TimeEntry{
		ID:             uuid.New().String(),
		OrganizationID: req.OrganizationID,
		UserID:         req.UserID,
		MemberID:       member.ID,
		ProjectID:      req.ProjectID,
		TaskID:         req.TaskID,
		Start:          req.Start.UTC(),
		Billable:       domain.BoolFromPtrWithDefault(billableDefault, req.Billable),
		Description:    req.Description,
		TagIDs:         req.TagIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.End != nil {
		end := req.End.UTC()
		entry.End = &end
	}
	if entry.Billable {
		entry.BillableRate, err = s.rates.ResolveRate(ctx, req.UserID, req.OrganizationID, req.ProjectID)
		if err != nil {
			return nil, err
		}
	}
	fields["billable"] = entry.Billable

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)
		if entry.End == nil {
			running, err := txEntries.GetRunning(ctx, member.ID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if running != nil {
				return &app.EntryError{Code: app.EntryErrAlreadyRunning, Message: fmt.Sprintf("entry %s is already running", running.ID)}
			}
		}
		return txEntries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) Stop(ctx context.Context, organizationID, userID string, end time.Time) (*domain.TimeEntry, error) {
	member, err := s.member(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.entries.GetRunning(ctx, member.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &app.EntryError{Code: app.EntryErrNotRunning, Message: "no running entry", Err: err}
	}
	if err != nil {
		return nil, err
	}
	if err := entry.Stop(end.UTC()); err != nil {
		return nil, &app.EntryError{Code: app.EntryErrInvalidTime, Message: err.Error()}
	}
	entry.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update applies the set fields. Clearing billable drops the rate. Turning
// billable on without an explicit rate resolves one, and an explicit rate
// always wins.
func (s *timeEntryService) Update(ctx context.Context, req app.UpdateEntryRequest) (*domain.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, req.ID)
	if err != nil {
		return nil, entryNotFound(err, "time entry "+req.ID)
	}

	if req.ProjectID != nil {
		if *req.ProjectID == "" {
			entry.ProjectID = nil
		} else {
			if _, err := s.project(ctx, entry.OrganizationID, *req.ProjectID); err != nil {
				return nil, err
			}
			entry.ProjectID = req.ProjectID
		}
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.End != nil {
		if req.End.Before(entry.Start) {
			return nil, &app.EntryError{Code: app.EntryErrInvalidTime, Message: "end is before start"}
		}
		end := req.End.UTC()
		entry.End = &end
	}
	if req.BillableRate != nil && req.BillableRate.IsNegative() {
		return nil, &app.EntryError{Code: app.EntryErrInvalidRate, Message: fmt.Sprintf("rate %s is negative", req.BillableRate)}
	}

	billable := domain.BoolFromPtrWithDefault(entry.Billable, req.Billable)
	switch {
	case !billable && req.BillableRate != nil:
		return nil, &app.EntryError{Code: app.EntryErrInvalidRate, Message: "a non-billable entry cannot carry a rate"}
	case !billable:
		entry.SetBillable(false)
	case req.BillableRate != nil:
		entry.Billable = true
		entry.BillableRate = req.BillableRate
	case !entry.Billable:
		rate, err := s.rates.ResolveRate(ctx, entry.UserID, entry.OrganizationID, entry.ProjectID)
		if err != nil {
			return nil, err
		}
		entry.Billable = true
		entry.BillableRate = rate
	}

	entry.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) Get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, entryNotFound(err, "time entry "+id)
	}
	return entry, nil
}

func (s *timeEntryService) save(ctx context.Context, entry *domain.TimeEntry) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTimeEntryRepo(tx).Update(ctx, entry)
	})
}

func (s *timeEntryService) member(ctx context.Context, organizationID, userID string) (*domain.Member, error) {
	member, err := s.members.GetByUser(ctx, organizationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &app.EntryError{
			Code:    app.EntryErrNotMember,
			Message: fmt.Sprintf("user %s is not a member of organization %s", userID, organizationID),
			Err:     err,
		}
	}
	return member, err
}

// project loads a project and checks it belongs to the organization.
func (s *timeEntryService) project(ctx context.Context, organizationID, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, entryNotFound(err, "project "+projectID)
	}
	if project.OrganizationID != organizationID {
		return nil, &app.EntryError{Code: app.EntryErrNotFound, Message: fmt.Sprintf("project %s not found", project.ID)}
	}
	return project, nil
}

func entryNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &app.EntryError{Code: app.EntryErrNotFound, Message: what + " not found", Err: err}
	}
	return err
}
