package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/service"
)

// candidate is anything the CLI lets users address by name or ID.
type candidate struct {
	id      string
	names   []string
	payload any
}

// matchOne resolves input against candidates: exact ID first, then a
// case-insensitive name, then a unique ID prefix.
func matchOne(kind, input string, candidates []candidate) (candidate, error) {
	if input == "" {
		return candidate{}, fmt.Errorf("%s is required", kind)
	}

	for _, c := range candidates {
		if c.id == input {
			return c, nil
		}
	}

	var byName []candidate
	for _, c := range candidates {
		for _, n := range c.names {
			if n != "" && strings.EqualFold(n, input) {
				byName = append(byName, c)
				break
			}
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return candidate{}, fmt.Errorf("%s %q is ambiguous (%d matches), use an ID", kind, input, len(byName))
	}

	var byPrefix []candidate
	for _, c := range candidates {
		if strings.HasPrefix(c.id, input) {
			byPrefix = append(byPrefix, c)
		}
	}
	switch len(byPrefix) {
	case 0:
		return candidate{}, fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return byPrefix[0], nil
	default:
		return candidate{}, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(byPrefix))
	}
}

// resolveOrg picks the organization named by --org, or the only one.
func resolveOrg(ctx context.Context, a *App, g *globalFlags) (*domain.Organization, error) {
	orgs, err := a.Organizations.List(ctx)
	if err != nil {
		return nil, err
	}
	if g.org == "" {
		switch len(orgs) {
		case 0:
			return nil, fmt.Errorf("no organizations yet, run \"tally import\" first")
		case 1:
			return orgs[0], nil
		default:
			return nil, fmt.Errorf("%d organizations found, pick one with --org", len(orgs))
		}
	}

	cands := make([]candidate, len(orgs))
	for i, o := range orgs {
		cands[i] = candidate{id: o.ID, names: []string{o.Name}, payload: o}
	}
	c, err := matchOne("organization", g.org, cands)
	if err != nil {
		return nil, err
	}
	return c.payload.(*domain.Organization), nil
}

// resolveMember finds a member by user name, email, user ID or member ID.
func resolveMember(ctx context.Context, a *App, orgID, input string) (service.MemberInfo, error) {
	members, err := a.Organizations.Members(ctx, orgID)
	if err != nil {
		return service.MemberInfo{}, err
	}
	cands := make([]candidate, 0, len(members))
	for _, m := range members {
		names := []string{m.User.Name, m.User.Email, m.Member.ID}
		cands = append(cands, candidate{id: m.User.ID, names: names, payload: m})
	}
	c, err := matchOne("member", input, cands)
	if err != nil {
		return service.MemberInfo{}, err
	}
	return c.payload.(service.MemberInfo), nil
}

func resolveMemberIDs(ctx context.Context, a *App, orgID string, inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		m, err := resolveMember(ctx, a, orgID, in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, m.Member.ID)
	}
	return ids, nil
}

// resolveViewer returns the viewer selected by --as. Without it reports are
// built with full access.
func resolveViewer(ctx context.Context, a *App, g *globalFlags, orgID string) (*app.Viewer, error) {
	if g.as == "" {
		return nil, nil
	}
	m, err := resolveMember(ctx, a, orgID, g.as)
	if err != nil {
		return nil, err
	}
	return a.Organizations.ResolveViewer(ctx, orgID, m.User.ID)
}

// catalogResolver resolves project, client, task and tag names for one
// organization, loading the catalog on first use.
type catalogResolver struct {
	app     *App
	orgID   string
	catalog *service.Catalog
}

func (r *catalogResolver) load(ctx context.Context) (*service.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	c, err := r.app.Organizations.Catalog(ctx, r.orgID)
	if err != nil {
		return nil, err
	}
	r.catalog = c
	return c, nil
}

func (r *catalogResolver) project(ctx context.Context, input string) (*domain.Project, error) {
	c, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	cands := make([]candidate, len(c.Projects))
	for i, p := range c.Projects {
		cands[i] = candidate{id: p.ID, names: []string{p.Name}, payload: p}
	}
	m, err := matchOne("project", input, cands)
	if err != nil {
		return nil, err
	}
	return m.payload.(*domain.Project), nil
}

func (r *catalogResolver) ids(ctx context.Context, kind string, inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	c, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var cands []candidate
	switch kind {
	case "project":
		for _, p := range c.Projects {
			cands = append(cands, candidate{id: p.ID, names: []string{p.Name}})
		}
	case "client":
		for _, cl := range c.Clients {
			cands = append(cands, candidate{id: cl.ID, names: []string{cl.Name}})
		}
	case "task":
		for _, t := range c.Tasks {
			cands = append(cands, candidate{id: t.ID, names: []string{t.Name}})
		}
	case "tag":
		for _, t := range c.Tags {
			cands = append(cands, candidate{id: t.ID, names: []string{t.Name}})
		}
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		m, err := matchOne(kind, in, cands)
		if err != nil {
			return nil, err
		}
		ids = append(ids, m.id)
	}
	return ids, nil
}
