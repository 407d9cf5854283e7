package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

// refSets tracks the refs declared so far, per record kind.
type refSets struct {
	users    map[string]bool
	clients  map[string]bool
	projects map[string]bool
	tasks    map[string]bool
	tags     map[string]bool
}

// ValidateWorkspaceSchema checks the schema before conversion and returns
// every problem found.
func ValidateWorkspaceSchema(schema *WorkspaceSchema) []error {
	var errs []error
	refs := refSets{
		users:    make(map[string]bool),
		clients:  make(map[string]bool),
		projects: make(map[string]bool),
		tasks:    make(map[string]bool),
		tags:     make(map[string]bool),
	}

	errs = append(errs, validateOrganization(&schema.Organization)...)
	errs = append(errs, validateUsers(schema.Users, refs.users)...)
	for i, c := range schema.Clients {
		errs = append(errs, validateNamedRef(fmt.Sprintf("clients[%d]", i), c.Ref, c.Name, refs.clients)...)
	}
	errs = append(errs, validateProjects(schema.Projects, refs)...)
	for i, t := range schema.Tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		errs = append(errs, validateNamedRef(prefix, t.Ref, t.Name, refs.tasks)...)
		errs = append(errs, requireRef(prefix+".project_ref", t.ProjectRef, "projects", refs.projects)...)
	}
	for i, t := range schema.Tags {
		errs = append(errs, validateNamedRef(fmt.Sprintf("tags[%d]", i), t.Ref, t.Name, refs.tags)...)
	}
	errs = append(errs, validateTimeEntries(schema.TimeEntries, refs)...)
	errs = append(errs, validateReports(schema.Reports, refs)...)

	return errs
}

func validateOrganization(o *OrganizationImport) []error {
	var errs []error
	if o.Name == "" {
		errs = append(errs, fmt.Errorf("organization.name is required"))
	}
	if o.Currency != "" && len(o.Currency) != 3 {
		errs = append(errs, fmt.Errorf("organization.currency: invalid value %q (expected a 3-letter code)", o.Currency))
	}
	errs = append(errs, validateRate("organization.billable_rate", o.BillableRate)...)
	return errs
}

func validateUsers(users []UserImport, refs map[string]bool) []error {
	var errs []error
	if len(users) == 0 {
		errs = append(errs, fmt.Errorf("users: at least one user is required"))
	}
	for i, u := range users {
		prefix := fmt.Sprintf("users[%d]", i)
		errs = append(errs, validateNamedRef(prefix, u.Ref, u.Name, refs)...)
		if u.Role != "" && !domain.Role(u.Role).Valid() {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, u.Role))
		}
		errs = append(errs, validateRate(prefix+".billable_rate", u.BillableRate)...)
	}
	return errs
}

func validateProjects(projects []ProjectImport, refs refSets) []error {
	var errs []error
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		errs = append(errs, validateNamedRef(prefix, p.Ref, p.Name, refs.projects)...)
		if p.ClientRef != nil && *p.ClientRef != "" {
			errs = append(errs, requireRef(prefix+".client_ref", *p.ClientRef, "clients", refs.clients)...)
		}
		errs = append(errs, validateRate(prefix+".billable_rate", p.BillableRate)...)

		seen := make(map[string]bool)
		for j, pm := range p.Members {
			memberPrefix := fmt.Sprintf("%s.members[%d]", prefix, j)
			errs = append(errs, requireRef(memberPrefix+".user_ref", pm.UserRef, "users", refs.users)...)
			if seen[pm.UserRef] {
				errs = append(errs, fmt.Errorf("%s.user_ref: duplicate member %q", memberPrefix, pm.UserRef))
			}
			seen[pm.UserRef] = true
			errs = append(errs, validateRate(memberPrefix+".billable_rate", pm.BillableRate)...)
		}
	}
	return errs
}

func validateTimeEntries(entries []TimeEntryImport, refs refSets) []error {
	var errs []error
	for i, e := range entries {
		prefix := fmt.Sprintf("time_entries[%d]", i)
		errs = append(errs, requireRef(prefix+".user_ref", e.UserRef, "users", refs.users)...)
		if e.ProjectRef != nil && *e.ProjectRef != "" {
			errs = append(errs, requireRef(prefix+".project_ref", *e.ProjectRef, "projects", refs.projects)...)
		}
		if e.TaskRef != nil && *e.TaskRef != "" {
			errs = append(errs, requireRef(prefix+".task_ref", *e.TaskRef, "tasks", refs.tasks)...)
		}
		for _, tag := range e.Tags {
			errs = append(errs, requireRef(prefix+".tags", tag, "tags", refs.tags)...)
		}

		start, err := time.Parse(time.RFC3339, e.Start)
		if e.Start == "" {
			errs = append(errs, fmt.Errorf("%s.start is required", prefix))
		} else if err != nil {
			errs = append(errs, fmt.Errorf("%s.start: invalid timestamp %q (expected RFC 3339)", prefix, e.Start))
		}
		if e.End != nil && e.Duration != nil {
			errs = append(errs, fmt.Errorf("%s: end and duration are mutually exclusive", prefix))
		}
		if e.End != nil {
			end, endErr := time.Parse(time.RFC3339, *e.End)
			if endErr != nil {
				errs = append(errs, fmt.Errorf("%s.end: invalid timestamp %q (expected RFC 3339)", prefix, *e.End))
			} else if err == nil && end.Before(start) {
				errs = append(errs, fmt.Errorf("%s.end %q must not be before start %q", prefix, *e.End, e.Start))
			}
		}
		if e.Duration != nil {
			if d, durErr := time.ParseDuration(*e.Duration); durErr != nil || d < 0 {
				errs = append(errs, fmt.Errorf("%s.duration: invalid value %q", prefix, *e.Duration))
			}
		}

		errs = append(errs, validateRate(prefix+".billable_rate", e.BillableRate)...)
		if e.BillableRate != nil && e.Billable != nil && !*e.Billable {
			errs = append(errs, fmt.Errorf("%s.billable_rate: a non-billable entry cannot carry a rate", prefix))
		}
	}
	return errs
}

func validateReports(reports []ReportImport, refs refSets) []error {
	var errs []error
	for i, r := range reports {
		prefix := fmt.Sprintf("reports[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if r.PublicUntil != nil {
			if _, err := time.Parse(time.RFC3339, *r.PublicUntil); err != nil {
				errs = append(errs, fmt.Errorf("%s.public_until: invalid timestamp %q (expected RFC 3339)", prefix, *r.PublicUntil))
			}
			if !r.Public {
				errs = append(errs, fmt.Errorf("%s.public_until requires public: true", prefix))
			}
		}

		p := r.Properties
		propPrefix := prefix + ".properties"
		if p.Group == "" {
			errs = append(errs, fmt.Errorf("%s.group is required", propPrefix))
		} else if !domain.GroupKey(p.Group).Known() {
			errs = append(errs, fmt.Errorf("%s.group: invalid value %q", propPrefix, p.Group))
		}
		if p.SubGroup != "" && !domain.GroupKey(p.SubGroup).Known() {
			errs = append(errs, fmt.Errorf("%s.sub_group: invalid value %q", propPrefix, p.SubGroup))
		}
		errs = append(errs, validateOptionalDate(propPrefix+".start_date", p.StartDate)...)
		errs = append(errs, validateOptionalDate(propPrefix+".end_date", p.EndDate)...)
		if p.StartDate != "" && p.EndDate != "" && p.EndDate < p.StartDate {
			errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", propPrefix, p.EndDate, p.StartDate))
		}
		for _, ref := range p.Members {
			errs = append(errs, requireRef(propPrefix+".members", ref, "users", refs.users)...)
		}
		for _, ref := range p.Projects {
			errs = append(errs, requireRef(propPrefix+".projects", ref, "projects", refs.projects)...)
		}
		for _, ref := range p.Clients {
			errs = append(errs, requireRef(propPrefix+".clients", ref, "clients", refs.clients)...)
		}
		for _, ref := range p.Tasks {
			errs = append(errs, requireRef(propPrefix+".tasks", ref, "tasks", refs.tasks)...)
		}
		for _, ref := range p.Tags {
			errs = append(errs, requireRef(propPrefix+".tags", ref, "tags", refs.tags)...)
		}
	}
	return errs
}

// validateNamedRef checks a record's own ref and name and registers the ref.
func validateNamedRef(prefix, ref, name string, refs map[string]bool) []error {
	var errs []error
	if ref == "" {
		errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
	} else if refs[ref] {
		errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref))
	} else {
		refs[ref] = true
	}
	if name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	return errs
}

func requireRef(field, ref, kind string, refs map[string]bool) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if !refs[ref] {
		return []error{fmt.Errorf("%s: ref %q not found in %s", field, ref, kind)}
	}
	return nil
}

func validateRate(field string, rate *string) []error {
	if rate == nil {
		return nil
	}
	d, err := decimal.NewFromString(*rate)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid rate %q", field, *rate)}
	}
	if d.IsNegative() {
		return []error{fmt.Errorf("%s: rate %q must not be negative", field, *rate)}
	}
	return nil
}

func validateOptionalDate(field, date string) []error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, date)}
	}
	return nil
}
