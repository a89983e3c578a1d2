package policy_test

import (
	"testing"

	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnersCanModifyTheirOwnContent(t *testing.T) {
	pol, err := policy.New()
	require.NoError(t, err)

	owner := &models.User{ID: 1, Role: models.RoleUser}

	assert.True(t, pol.CanModify(owner, 1, policy.ResourcePost))
	assert.True(t, pol.CanModify(owner, 1, policy.ResourceComment))
	assert.False(t, pol.CanModify(owner, 2, policy.ResourcePost))
	assert.False(t, pol.CanModify(owner, 2, policy.ResourceComment))
}

func TestAdminsCanModifyAnyContent(t *testing.T) {
	pol, err := policy.New()
	require.NoError(t, err)

	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	assert.True(t, pol.CanModify(admin, 2, policy.ResourcePost))
	assert.True(t, pol.CanModify(admin, 2, policy.ResourceComment))
}

func TestOnlyAdminsModerate(t *testing.T) {
	pol, err := policy.New()
	require.NoError(t, err)

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	user := &models.User{ID: 2, Role: models.RoleUser}

	assert.True(t, pol.CanModerate(admin, policy.ResourceGenre))
	assert.True(t, pol.CanModerate(admin, policy.ResourceUser))
	assert.False(t, pol.CanModerate(user, policy.ResourceGenre))
	assert.False(t, pol.CanModerate(user, policy.ResourceUser))
}

func TestNilActorIsDenied(t *testing.T) {
	pol, err := policy.New()
	require.NoError(t, err)

	assert.False(t, pol.CanModify(nil, 1, policy.ResourcePost))
	assert.False(t, pol.CanModerate(nil, policy.ResourceUser))
}
