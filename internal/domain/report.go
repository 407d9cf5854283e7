package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for report ranges.
const DateLayout = "2006-01-02"

// Report is a saved report definition. Its data is recomputed on every read.
type Report struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	IsPublic       bool
	PublicUntil    *time.Time
	ShareSecret    *string
	Properties     ReportProperties
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAccessibleAt reports whether the report can be served publicly at now.
func (r *Report) IsAccessibleAt(now time.Time) bool {
	if !r.IsPublic || r.ShareSecret == nil {
		return false
	}
	return r.PublicUntil == nil || r.PublicUntil.After(now)
}

// ReportProperties is the filter and grouping set stored with a report.
// ID lists are sets in memory and comma-joined strings when persisted, so
// existing stored rows keep their shape.
type ReportProperties struct {
	Group      GroupKey
	SubGroup   GroupKey
	StartDate  string
	EndDate    string
	MemberIDs  []string
	ProjectIDs []string
	TaskIDs    []string
	ClientIDs  []string
	TagIDs     []string
	Billable   *bool
}

type storedReportProperties struct {
	Group     string  `json:"group"`
	SubGroup  string  `json:"subGroup,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Members   *string `json:"members,omitempty"`
	Billable  *string `json:"billable,omitempty"`
	Clients   *string `json:"clients,omitempty"`
	Tasks     *string `json:"tasks,omitempty"`
	Projects  *string `json:"projects,omitempty"`
	Tags      *string `json:"tags,omitempty"`
}

// GroupKeys returns the one or two configured grouping dimensions.
func (p ReportProperties) GroupKeys() []GroupKey {
	var keys []GroupKey
	if p.Group != "" {
		keys = append(keys, p.Group)
	}
	if p.SubGroup != "" {
		keys = append(keys, p.SubGroup)
	}
	return keys
}

func (p ReportProperties) MarshalJSON() ([]byte, error) {
	stored := storedReportProperties{
		Group:     string(p.Group),
		SubGroup:  string(p.SubGroup),
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Members:   joinedOrNil(p.MemberIDs),
		Clients:   joinedOrNil(p.ClientIDs),
		Tasks:     joinedOrNil(p.TaskIDs),
		Projects:  joinedOrNil(p.ProjectIDs),
		Tags:      joinedOrNil(p.TagIDs),
	}
	if p.Billable != nil {
		s := strconv.FormatBool(*p.Billable)
		stored.Billable = &s
	}
	return json.Marshal(stored)
}

func (p *ReportProperties) UnmarshalJSON(data []byte) error {
	var stored storedReportProperties
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	*p = ReportProperties{
		Group:      GroupKey(stored.Group),
		SubGroup:   GroupKey(stored.SubGroup),
		StartDate:  stored.StartDate,
		EndDate:    stored.EndDate,
		MemberIDs:  SplitIDs(deref(stored.Members)),
		ClientIDs:  SplitIDs(deref(stored.Clients)),
		TaskIDs:    SplitIDs(deref(stored.Tasks)),
		ProjectIDs: SplitIDs(deref(stored.Projects)),
		TagIDs:     SplitIDs(deref(stored.Tags)),
	}
	if stored.Billable != nil && *stored.Billable != "" {
		b, err := strconv.ParseBool(*stored.Billable)
		if err != nil {
			return fmt.Errorf("billable: invalid value %q", *stored.Billable)
		}
		p.Billable = &b
	}
	return nil
}

// SplitIDs parses a comma-joined id list into a de-duplicated slice,
// preserving first-appearance order and dropping blanks.
func SplitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// JoinIDs is the inverse of SplitIDs.
func JoinIDs(ids []string) string {
	return strings.Join(SplitIDs(strings.Join(ids, ",")), ",")
}

func joinedOrNil(ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	s := JoinIDs(ids)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
