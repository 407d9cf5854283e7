package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
)

type organizationService struct {
	orgs    repository.OrganizationRepo
	catalog CatalogRepos
}

func NewOrganizationService(orgs repository.OrganizationRepo, catalog CatalogRepos) OrganizationService {
	return &organizationService{orgs: orgs, catalog: catalog}
}

func (s *organizationService) List(ctx context.Context) ([]*domain.Organization, error) {
	return s.orgs.List(ctx)
}

func (s *organizationService) Get(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

// ResolveViewer turns a user id into the member a report is built for.
func (s *organizationService) ResolveViewer(ctx context.Context, organizationID, userID string) (*app.Viewer, error) {
	m, err := s.catalog.Members.GetByUser(ctx, organizationID, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving viewer: %w", err)
	}
	return &app.Viewer{UserID: m.UserID, MemberID: m.ID, Role: m.Role}, nil
}

func (s *organizationService) Members(ctx context.Context, organizationID string) ([]MemberInfo, error) {
	members, err := s.catalog.Members.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	users, err := s.catalog.Users.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		u, ok := byID[m.UserID]
		if !ok {
			u = &domain.User{ID: m.UserID}
		}
		infos = append(infos, MemberInfo{Member: m, User: u})
	}
	return infos, nil
}

// Catalog includes archived projects so old entries can still be named.
func (s *organizationService) Catalog(ctx context.Context, organizationID string) (*Catalog, error) {
	var (
		c   Catalog
		err error
	)
	if c.Projects, err = s.catalog.Projects.ListByOrganization(ctx, organizationID, true); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if c.Clients, err = s.catalog.Clients.ListByOrganization(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	if c.Tasks, err = s.catalog.Tasks.ListByOrganization(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if c.Tags, err = s.catalog.Tags.ListByOrganization(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return &c, nil
}

func (s *organizationService) ProjectMembers(ctx context.Context, projectID string) ([]*domain.ProjectMember, error) {
	return s.catalog.ProjectMembers.ListByProject(ctx, projectID)
}
