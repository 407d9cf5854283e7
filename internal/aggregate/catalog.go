package aggregate

import "github.com/alexanderramin/tally/internal/domain"

// ProjectInfo is the part of a project the grouping engine needs.
type ProjectInfo struct {
	Name     string
	ClientID *string
}

// Catalog resolves ids on time entries to display names. Missing maps are
// treated as empty.
type Catalog struct {
	Members  map[string]string
	Projects map[string]ProjectInfo
	Clients  map[string]string
	Tasks    map[string]string
}

// NewCatalog indexes the organization's entities by id. Members are named
// after their user.
func NewCatalog(
	users []*domain.User,
	members []*domain.Member,
	projects []*domain.Project,
	clients []*domain.Client,
	tasks []*domain.Task,
) Catalog {
	userNames := make(map[string]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	c := Catalog{
		Members:  make(map[string]string, len(members)),
		Projects: make(map[string]ProjectInfo, len(projects)),
		Clients:  make(map[string]string, len(clients)),
		Tasks:    make(map[string]string, len(tasks)),
	}
	for _, m := range members {
		c.Members[m.ID] = userNames[m.UserID]
	}
	for _, p := range projects {
		c.Projects[p.ID] = ProjectInfo{Name: p.Name, ClientID: p.ClientID}
	}
	for _, cl := range clients {
		c.Clients[cl.ID] = cl.Name
	}
	for _, t := range tasks {
		c.Tasks[t.ID] = t.Name
	}
	return c
}

func (c Catalog) clientOf(projectID *string) string {
	if projectID == nil {
		return domain.NullKey
	}
	p, ok := c.Projects[*projectID]
	if !ok || p.ClientID == nil || *p.ClientID == "" {
		return domain.NullKey
	}
	return *p.ClientID
}
