package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/alexanderramin/tally/internal/repository"
)

type importService struct {
	uow             db.UnitOfWork
	defaultCurrency string
	observer        UseCaseObserver
}

// NewImportService returns an ImportService. defaultCurrency applies to
// files that leave the organization's currency out.
func NewImportService(uow db.UnitOfWork, defaultCurrency string, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, defaultCurrency: defaultCurrency, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportWorkspace(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadWorkspaceSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportWorkspaceFromSchema(ctx context.Context, schema *importer.WorkspaceSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

// importSchema stores the whole workspace in one transaction. Billable
// entries without a rate get the rate resolved from the imported catalog.
func (s *importService) importSchema(ctx context.Context, schema *importer.WorkspaceSchema) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "workspace.import", startedAt, fields, &err)

	if errs := importer.ValidateWorkspaceSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	if schema.Organization.Currency == "" {
		schema.Organization.Currency = s.defaultCurrency
	}
	ws, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	secrets := make(map[string]string)
	for _, r := range ws.Reports {
		if !r.IsPublic {
			continue
		}
		secret, err := newShareSecret()
		if err != nil {
			return nil, err
		}
		r.ShareSecret = &secret
		secrets[r.Name] = secret
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persistWorkspace(ctx, tx, ws)
	})
	if err != nil {
		return nil, err
	}

	fields["organization_id"] = ws.Organization.ID
	fields["entries"] = len(ws.Entries)
	return &ImportResult{
		Organization:  ws.Organization,
		UserCount:     len(ws.Users),
		MemberCount:   len(ws.Members),
		ProjectCount:  len(ws.Projects),
		EntryCount:    len(ws.Entries),
		ReportCount:   len(ws.Reports),
		ReportSecrets: secrets,
	}, nil
}

func persistWorkspace(ctx context.Context, tx db.DBTX, ws *importer.Workspace) error {
	if err := repository.NewSQLiteOrganizationRepo(tx).Create(ctx, ws.Organization); err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}

	users := repository.NewSQLiteUserRepo(tx)
	for _, u := range ws.Users {
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("creating user %q: %w", u.Name, err)
		}
	}
	members := repository.NewSQLiteMemberRepo(tx)
	for _, m := range ws.Members {
		if err := members.Create(ctx, m); err != nil {
			return fmt.Errorf("creating member: %w", err)
		}
	}
	clients := repository.NewSQLiteClientRepo(tx)
	for _, c := range ws.Clients {
		if err := clients.Create(ctx, c); err != nil {
			return fmt.Errorf("creating client %q: %w", c.Name, err)
		}
	}
	projects := repository.NewSQLiteProjectRepo(tx)
	for _, p := range ws.Projects {
		if err := projects.Create(ctx, p); err != nil {
			return fmt.Errorf("creating project %q: %w", p.Name, err)
		}
	}
	projectMembers := repository.NewSQLiteProjectMemberRepo(tx)
	for _, pm := range ws.ProjectMembers {
		if err := projectMembers.Create(ctx, pm); err != nil {
			return fmt.Errorf("creating project member: %w", err)
		}
	}
	tasks := repository.NewSQLiteTaskRepo(tx)
	for _, t := range ws.Tasks {
		if err := tasks.Create(ctx, t); err != nil {
			return fmt.Errorf("creating task %q: %w", t.Name, err)
		}
	}
	tags := repository.NewSQLiteTagRepo(tx)
	for _, t := range ws.Tags {
		if err := tags.Create(ctx, t); err != nil {
			return fmt.Errorf("creating tag %q: %w", t.Name, err)
		}
	}

	rates := repository.NewSQLiteRateRepo(tx)
	entries := repository.NewSQLiteTimeEntryRepo(tx)
	for _, e := range ws.Entries {
		if ws.NeedsRate[e.ID] {
			rate, err := resolveFrom(ctx, rates, domain.RatePrecedence, rateKey(e.UserID, e.OrganizationID, e.ProjectID))
			if err != nil {
				return fmt.Errorf("resolving rate for entry at %s: %w", e.Start.Format(time.RFC3339), err)
			}
			e.BillableRate = rate
		}
		if err := entries.Create(ctx, e); err != nil {
			return fmt.Errorf("creating time entry at %s: %w", e.Start.Format(time.RFC3339), err)
		}
	}

	reports := repository.NewSQLiteReportRepo(tx)
	for _, r := range ws.Reports {
		if err := reports.Create(ctx, r); err != nil {
			return fmt.Errorf("creating report %q: %w", r.Name, err)
		}
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
