package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkspaceSchema is the top-level structure of a workspace import file.
// Records point at each other through file-local refs; users carry their
// organization membership.
type WorkspaceSchema struct {
	Organization OrganizationImport `yaml:"organization" json:"organization"`
	Users        []UserImport       `yaml:"users" json:"users"`
	Clients      []ClientImport     `yaml:"clients,omitempty" json:"clients,omitempty"`
	Projects     []ProjectImport    `yaml:"projects,omitempty" json:"projects,omitempty"`
	Tasks        []TaskImport       `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	Tags         []TagImport        `yaml:"tags,omitempty" json:"tags,omitempty"`
	TimeEntries  []TimeEntryImport  `yaml:"time_entries,omitempty" json:"time_entries,omitempty"`
	Reports      []ReportImport     `yaml:"reports,omitempty" json:"reports,omitempty"`
}

type OrganizationImport struct {
	Name                         string  `yaml:"name" json:"name"`
	Currency                     string  `yaml:"currency,omitempty" json:"currency,omitempty"`
	BillableRate                 *string `yaml:"billable_rate,omitempty" json:"billable_rate,omitempty"`
	EmployeesCanSeeBillableRates *bool   `yaml:"employees_can_see_billable_rates,omitempty" json:"employees_can_see_billable_rates,omitempty"`
}

// UserImport is a user and its membership. BillableRate is the member's
// organization-wide override.
type UserImport struct {
	Ref          string  `yaml:"ref" json:"ref"`
	Name         string  `yaml:"name" json:"name"`
	Email        string  `yaml:"email,omitempty" json:"email,omitempty"`
	Role         string  `yaml:"role,omitempty" json:"role,omitempty"`
	BillableRate *string `yaml:"billable_rate,omitempty" json:"billable_rate,omitempty"`
}

type ClientImport struct {
	Ref  string `yaml:"ref" json:"ref"`
	Name string `yaml:"name" json:"name"`
}

type ProjectImport struct {
	Ref          string                `yaml:"ref" json:"ref"`
	Name         string                `yaml:"name" json:"name"`
	ClientRef    *string               `yaml:"client_ref,omitempty" json:"client_ref,omitempty"`
	Color        string                `yaml:"color,omitempty" json:"color,omitempty"`
	BillableRate *string               `yaml:"billable_rate,omitempty" json:"billable_rate,omitempty"`
	IsBillable   *bool                 `yaml:"is_billable,omitempty" json:"is_billable,omitempty"`
	Archived     bool                  `yaml:"archived,omitempty" json:"archived,omitempty"`
	Members      []ProjectMemberImport `yaml:"members,omitempty" json:"members,omitempty"`
}

type ProjectMemberImport struct {
	UserRef      string  `yaml:"user_ref" json:"user_ref"`
	BillableRate *string `yaml:"billable_rate,omitempty" json:"billable_rate,omitempty"`
}

type TaskImport struct {
	Ref        string `yaml:"ref" json:"ref"`
	ProjectRef string `yaml:"project_ref" json:"project_ref"`
	Name       string `yaml:"name" json:"name"`
}

type TagImport struct {
	Ref  string `yaml:"ref" json:"ref"`
	Name string `yaml:"name" json:"name"`
}

// TimeEntryImport is one tracked interval. End and Duration are
// alternatives; with neither the entry is running. A billable entry without
// BillableRate gets the rate its user resolves to.
type TimeEntryImport struct {
	UserRef      string   `yaml:"user_ref" json:"user_ref"`
	ProjectRef   *string  `yaml:"project_ref,omitempty" json:"project_ref,omitempty"`
	TaskRef      *string  `yaml:"task_ref,omitempty" json:"task_ref,omitempty"`
	Start        string   `yaml:"start" json:"start"`
	End          *string  `yaml:"end,omitempty" json:"end,omitempty"`
	Duration     *string  `yaml:"duration,omitempty" json:"duration,omitempty"`
	Billable     *bool    `yaml:"billable,omitempty" json:"billable,omitempty"`
	BillableRate *string  `yaml:"billable_rate,omitempty" json:"billable_rate,omitempty"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

type ReportImport struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Public      bool             `yaml:"public,omitempty" json:"public,omitempty"`
	PublicUntil *string          `yaml:"public_until,omitempty" json:"public_until,omitempty"`
	Properties  PropertiesImport `yaml:"properties" json:"properties"`
}

// PropertiesImport mirrors the saved report filter with refs in place of ids.
type PropertiesImport struct {
	Group     string   `yaml:"group" json:"group"`
	SubGroup  string   `yaml:"sub_group,omitempty" json:"sub_group,omitempty"`
	StartDate string   `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string   `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Members   []string `yaml:"members,omitempty" json:"members,omitempty"`
	Projects  []string `yaml:"projects,omitempty" json:"projects,omitempty"`
	Clients   []string `yaml:"clients,omitempty" json:"clients,omitempty"`
	Tasks     []string `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	Tags      []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Billable  *bool    `yaml:"billable,omitempty" json:"billable,omitempty"`
}

// LoadWorkspaceSchema reads a YAML or JSON workspace file. Unknown fields
// are rejected.
func LoadWorkspaceSchema(path string) (*WorkspaceSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWorkspaceSchema(data)
}

// ParseWorkspaceSchema decodes a workspace document. JSON is accepted as the
// YAML subset it is.
func ParseWorkspaceSchema(data []byte) (*WorkspaceSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schema WorkspaceSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
