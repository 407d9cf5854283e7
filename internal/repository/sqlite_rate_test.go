package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRepo_FindRate(t *testing.T) {
	w := newWorkspace(t)
	ctx := context.Background()
	pm := testutil.NewTestProjectMember(w.billed, w.bobM, testutil.Rate("150"))
	require.NoError(t, NewSQLiteProjectMemberRepo(w.db).Create(ctx, pm))

	repo := NewSQLiteRateRepo(w.db)
	bobOnBilled := RateKey{OrganizationID: w.org.ID, UserID: w.bob.ID, ProjectID: w.billed.ID}

	cases := []struct {
		name  string
		level domain.RateLevel
		key   RateKey
		want  string
	}{
		{"project member", domain.RateLevelProjectMember, bobOnBilled, "150"},
		{"project", domain.RateLevelProject, bobOnBilled, "120"},
		{"organization member", domain.RateLevelOrganizationMember, bobOnBilled, "80"},
		{"organization", domain.RateLevelOrganization, bobOnBilled, "50"},
		{"no project member row", domain.RateLevelProjectMember,
			RateKey{OrganizationID: w.org.ID, UserID: w.ada.ID, ProjectID: w.billed.ID}, ""},
		{"project without rate", domain.RateLevelProject,
			RateKey{OrganizationID: w.org.ID, UserID: w.ada.ID, ProjectID: w.inhouse.ID}, ""},
		{"member without override", domain.RateLevelOrganizationMember,
			RateKey{OrganizationID: w.org.ID, UserID: w.ada.ID}, ""},
		{"no project given", domain.RateLevelProject, RateKey{OrganizationID: w.org.ID, UserID: w.ada.ID}, ""},
		{"project of another organization", domain.RateLevelProject,
			RateKey{OrganizationID: "other", UserID: w.bob.ID, ProjectID: w.billed.ID}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := repo.FindRate(ctx, tc.level, tc.key)
			require.NoError(t, err)
			if tc.want == "" {
				assert.Nil(t, rate)
				return
			}
			require.NotNil(t, rate)
			assert.Equal(t, tc.want, rate.String())
		})
	}

	_, err := repo.FindRate(ctx, domain.RateLevel("team"), bobOnBilled)
	assert.Error(t, err)
}

func TestRateRepo_SourceRate(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteRateRepo(w.db)
	ctx := context.Background()

	old, err := repo.GetSourceRate(ctx, domain.RateLevelProject, w.billed.ID)
	require.NoError(t, err)
	assert.Equal(t, "120", old.String())

	require.NoError(t, repo.SetSourceRate(ctx, domain.RateLevelProject, w.billed.ID, testutil.Rate("135")))
	updated, err := repo.GetSourceRate(ctx, domain.RateLevelProject, w.billed.ID)
	require.NoError(t, err)
	assert.Equal(t, "135", updated.String())

	require.NoError(t, repo.SetSourceRate(ctx, domain.RateLevelOrganizationMember, w.bobM.ID, nil))
	cleared, err := repo.GetSourceRate(ctx, domain.RateLevelOrganizationMember, w.bobM.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared)

	_, err = repo.GetSourceRate(ctx, domain.RateLevelOrganization, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetSourceRate(ctx, domain.RateLevelProjectMember, "missing", nil), ErrNotFound)
}
