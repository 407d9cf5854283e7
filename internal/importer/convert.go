package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "EUR"
	defaultColor    = "#83a598"
)

// Workspace is a converted schema, ready for persistence in this order.
type Workspace struct {
	Organization   *domain.Organization
	Users          []*domain.User
	Members        []*domain.Member
	Clients        []*domain.Client
	Projects       []*domain.Project
	ProjectMembers []*domain.ProjectMember
	Tasks          []*domain.Task
	Tags           []*domain.Tag
	Entries        []*domain.TimeEntry
	Reports        []*domain.Report

	// NeedsRate holds the ids of billable entries that were given no rate
	// and must be resolved once the catalog is stored.
	NeedsRate map[string]bool
}

// Convert transforms a validated WorkspaceSchema into domain objects.
// Call ValidateWorkspaceSchema first; Convert assumes the schema is valid.
func Convert(schema *WorkspaceSchema) (*Workspace, error) {
	now := time.Now().UTC().Truncate(time.Second)

	orgRate, err := parseRate(schema.Organization.BillableRate)
	if err != nil {
		return nil, err
	}
	org := &domain.Organization{
		ID:                           uuid.New().String(),
		Name:                         schema.Organization.Name,
		Currency:                     domain.CoalesceStr(schema.Organization.Currency, defaultCurrency),
		BillableRate:                 orgRate,
		EmployeesCanSeeBillableRates: domain.BoolFromPtrWithDefault(false, schema.Organization.EmployeesCanSeeBillableRates),
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
	ws := &Workspace{Organization: org, NeedsRate: make(map[string]bool)}

	userIDs := make(map[string]string)   // ref -> user id
	memberIDs := make(map[string]string) // user ref -> member id
	for _, u := range schema.Users {
		rate, err := parseRate(u.BillableRate)
		if err != nil {
			return nil, err
		}
		user := &domain.User{ID: uuid.New().String(), Name: u.Name, Email: u.Email, CreatedAt: now}
		member := &domain.Member{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           domain.Role(domain.CoalesceStr(u.Role, string(domain.RoleEmployee))),
			BillableRate:   rate,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		userIDs[u.Ref] = user.ID
		memberIDs[u.Ref] = member.ID
		ws.Users = append(ws.Users, user)
		ws.Members = append(ws.Members, member)
	}

	clientIDs := make(map[string]string)
	for _, c := range schema.Clients {
		client := &domain.Client{ID: uuid.New().String(), OrganizationID: org.ID, Name: c.Name, CreatedAt: now}
		clientIDs[c.Ref] = client.ID
		ws.Clients = append(ws.Clients, client)
	}

	projectIDs := make(map[string]string)
	for _, p := range schema.Projects {
		rate, err := parseRate(p.BillableRate)
		if err != nil {
			return nil, err
		}
		project := &domain.Project{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			ClientID:       lookupRef(clientIDs, p.ClientRef),
			Name:           p.Name,
			Color:          domain.CoalesceStr(p.Color, defaultColor),
			BillableRate:   rate,
			IsBillable:     domain.BoolFromPtrWithDefault(rate != nil, p.IsBillable),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if p.Archived {
			archivedAt := now
			project.ArchivedAt = &archivedAt
		}
		projectIDs[p.Ref] = project.ID
		ws.Projects = append(ws.Projects, project)

		for _, pm := range p.Members {
			rate, err := parseRate(pm.BillableRate)
			if err != nil {
				return nil, err
			}
			ws.ProjectMembers = append(ws.ProjectMembers, &domain.ProjectMember{
				ID:           uuid.New().String(),
				ProjectID:    project.ID,
				MemberID:     memberIDs[pm.UserRef],
				UserID:       userIDs[pm.UserRef],
				BillableRate: rate,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}

	taskIDs := make(map[string]string)
	for _, t := range schema.Tasks {
		task := &domain.Task{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			ProjectID:      projectIDs[t.ProjectRef],
			Name:           t.Name,
			CreatedAt:      now,
		}
		taskIDs[t.Ref] = task.ID
		ws.Tasks = append(ws.Tasks, task)
	}

	tagIDs := make(map[string]string)
	for _, t := range schema.Tags {
		tag := &domain.Tag{ID: uuid.New().String(), OrganizationID: org.ID, Name: t.Name, CreatedAt: now}
		tagIDs[t.Ref] = tag.ID
		ws.Tags = append(ws.Tags, tag)
	}

	billableByProject := make(map[string]bool, len(ws.Projects))
	for _, p := range ws.Projects {
		billableByProject[p.ID] = p.IsBillable
	}
	for i, e := range schema.TimeEntries {
		entry, err := convertEntry(e, org.ID, userIDs[e.UserRef], memberIDs[e.UserRef], projectIDs, taskIDs, tagIDs, billableByProject, now)
		if err != nil {
			return nil, fmt.Errorf("time_entries[%d]: %w", i, err)
		}
		if entry.Billable && e.BillableRate == nil {
			ws.NeedsRate[entry.ID] = true
		}
		ws.Entries = append(ws.Entries, entry)
	}

	for i, r := range schema.Reports {
		report, err := convertReport(r, org.ID, memberIDs, projectIDs, clientIDs, taskIDs, tagIDs, now)
		if err != nil {
			return nil, fmt.Errorf("reports[%d]: %w", i, err)
		}
		ws.Reports = append(ws.Reports, report)
	}
	return ws, nil
}

func convertEntry(
	e TimeEntryImport,
	organizationID, userID, memberID string,
	projectIDs, taskIDs, tagIDs map[string]string,
	billableByProject map[string]bool,
	now time.Time,
) (*domain.TimeEntry, error) {
	start, err := time.Parse(time.RFC3339, e.Start)
	if err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	start = start.UTC()

	var end *time.Time
	switch {
	case e.End != nil:
		t, err := time.Parse(time.RFC3339, *e.End)
		if err != nil {
			return nil, fmt.Errorf("parsing end: %w", err)
		}
		t = t.UTC()
		end = &t
	case e.Duration != nil:
		d, err := time.ParseDuration(*e.Duration)
		if err != nil {
			return nil, fmt.Errorf("parsing duration: %w", err)
		}
		t := start.Add(d)
		end = &t
	}

	rate, err := parseRate(e.BillableRate)
	if err != nil {
		return nil, err
	}
	projectID := lookupRef(projectIDs, e.ProjectRef)
	billableDefault := rate != nil
	if projectID != nil && billableByProject[*projectID] {
		billableDefault = true
	}

	tags := make([]string, 0, len(e.Tags))
	for _, ref := range e.Tags {
		tags = append(tags, tagIDs[ref])
	}

	return &domain.TimeEntry{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		UserID:         userID,
		MemberID:       memberID,
		ProjectID:      projectID,
		TaskID:         lookupRef(taskIDs, e.TaskRef),
		Start:          start,
		End:            end,
		Billable:       domain.BoolFromPtrWithDefault(billableDefault, e.Billable),
		BillableRate:   rate,
		Description:    e.Description,
		TagIDs:         tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func convertReport(
	r ReportImport,
	organizationID string,
	memberIDs, projectIDs, clientIDs, taskIDs, tagIDs map[string]string,
	now time.Time,
) (*domain.Report, error) {
	report := &domain.Report{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           r.Name,
		Description:    r.Description,
		IsPublic:       r.Public,
		Properties: domain.ReportProperties{
			Group:      domain.GroupKey(r.Properties.Group),
			SubGroup:   domain.GroupKey(r.Properties.SubGroup),
			StartDate:  r.Properties.StartDate,
			EndDate:    r.Properties.EndDate,
			MemberIDs:  lookupRefs(memberIDs, r.Properties.Members),
			ProjectIDs: lookupRefs(projectIDs, r.Properties.Projects),
			ClientIDs:  lookupRefs(clientIDs, r.Properties.Clients),
			TaskIDs:    lookupRefs(taskIDs, r.Properties.Tasks),
			TagIDs:     lookupRefs(tagIDs, r.Properties.Tags),
			Billable:   r.Properties.Billable,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if r.PublicUntil != nil {
		t, err := time.Parse(time.RFC3339, *r.PublicUntil)
		if err != nil {
			return nil, fmt.Errorf("parsing public_until: %w", err)
		}
		t = t.UTC()
		report.PublicUntil = &t
	}
	return report, nil
}

func parseRate(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("parsing rate %q: %w", *s, err)
	}
	return &d, nil
}

func lookupRef(ids map[string]string, ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	id, ok := ids[*ref]
	if !ok {
		return nil
	}
	return &id
}

func lookupRefs(ids map[string]string, refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if id, ok := ids[ref]; ok {
			out = append(out, id)
		}
	}
	return out
}
