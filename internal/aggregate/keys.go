package aggregate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

const (
	nameNoProject     = "No Project"
	nameNoClient      = "No Client"
	nameNoTask        = "No Task"
	nameNoDescription = "No Description"
	nameUnknown       = "Unknown"
	nameBillable      = "Billable"
	nameNonBillable   = "Non-billable"

	dayNameLayout = "Mon, 2006-01-02"
)

// localTime shifts t into the caller's reference time. offsetMinutes uses
// the getTimezoneOffset sign convention: positive west of UTC.
func localTime(t time.Time, offsetMinutes int) time.Time {
	return t.UTC().Add(-time.Duration(offsetMinutes) * time.Minute)
}

// keyOf extracts the bucket key of e for one grouping dimension.
func keyOf(e *domain.TimeEntry, key domain.GroupKey, opts Options) string {
	switch key {
	case domain.GroupDate, domain.GroupDay:
		return localTime(e.Start, opts.UTCOffsetMinutes).Format(domain.DateLayout)
	case domain.GroupWeek:
		year, week := localTime(e.Start, opts.UTCOffsetMinutes).ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.GroupMonth:
		return localTime(e.Start, opts.UTCOffsetMinutes).Format("2006-01")
	case domain.GroupMembers:
		return orNull(&e.MemberID)
	case domain.GroupProjects:
		return orNull(e.ProjectID)
	case domain.GroupTasks:
		return orNull(e.TaskID)
	case domain.GroupClients:
		return opts.Catalog.clientOf(e.ProjectID)
	case domain.GroupBillable:
		return strconv.FormatBool(e.Billable)
	case domain.GroupDescription:
		// A literal "null" description shares the no-description bucket.
		if e.Description == "" {
			return domain.NullKey
		}
		return e.Description
	}
	if v, ok := e.Field(string(key)); ok {
		return v
	}
	return domain.NullKey
}

// nameOf resolves the display name of a bucket key.
func nameOf(key domain.GroupKey, value string, opts Options) string {
	switch key {
	case domain.GroupDate, domain.GroupDay:
		d, err := time.Parse(domain.DateLayout, value)
		if err != nil {
			return value
		}
		return d.Format(dayNameLayout)
	case domain.GroupWeek:
		var year, week int
		if _, err := fmt.Sscanf(value, "%d-W%d", &year, &week); err != nil {
			return value
		}
		return fmt.Sprintf("Week %d, %d", week, year)
	case domain.GroupMonth:
		d, err := time.Parse("2006-01", value)
		if err != nil {
			return value
		}
		return d.Format("January 2006")
	case domain.GroupMembers:
		return lookup(opts.Catalog.Members, value, nameUnknown)
	case domain.GroupProjects:
		if value == domain.NullKey {
			return nameNoProject
		}
		if p, ok := opts.Catalog.Projects[value]; ok && p.Name != "" {
			return p.Name
		}
		return nameUnknown
	case domain.GroupTasks:
		if value == domain.NullKey {
			return nameNoTask
		}
		return lookup(opts.Catalog.Tasks, value, nameUnknown)
	case domain.GroupClients:
		if value == domain.NullKey {
			return nameNoClient
		}
		return lookup(opts.Catalog.Clients, value, nameUnknown)
	case domain.GroupBillable:
		if value == "true" {
			return nameBillable
		}
		return nameNonBillable
	case domain.GroupDescription:
		if value == domain.NullKey {
			return nameNoDescription
		}
		return value
	}
	if value == domain.NullKey {
		return nameUnknown
	}
	return value
}

func lookup(names map[string]string, id, fallback string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fallback
}

func orNull(id *string) string {
	if id == nil || *id == "" {
		return domain.NullKey
	}
	return *id
}
