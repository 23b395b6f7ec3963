package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

var testMappings = []models.RoleMapping{
	{DiscordRoleID: "role-admin", PermissionGroup: "admin", Priority: 100},
	{DiscordRoleID: "role-vip", PermissionGroup: "vip", Priority: 50},
}

func newTestSyncService(online ...string) (*PermissionSyncServiceImpl, *repository.PermissionStore) {
	players := &fakeRegistry{online: make(map[string]bool)}
	for _, id := range online {
		players.online[id] = true
	}

	perms := repository.NewPermissionStore()
	svc := NewPermissionSyncServiceImpl(testMappings, players, perms, nopLogger{})
	return svc, perms
}

func TestApplyGrantsMappedGroup(t *testing.T) {
	svc, perms := newTestSyncService("s1")

	svc.apply(&models.PermissionSyncRequest{SteamID: "s1", DiscordRoles: []string{"role-vip"}})

	has, err := perms.HasGroup("s1", "vip")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestApplyPrefersHigherPriority(t *testing.T) {
	svc, perms := newTestSyncService("s1")

	svc.apply(&models.PermissionSyncRequest{SteamID: "s1", DiscordRoles: []string{"role-vip", "role-admin"}})

	has, err := perms.HasGroup("s1", "admin")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = perms.HasGroup("s1", "vip")
	require.NoError(t, err)
	assert.False(t, has, "only the winning group is granted")
}

func TestApplyOfflinePlayerIsNoOp(t *testing.T) {
	svc, perms := newTestSyncService()

	svc.apply(&models.PermissionSyncRequest{SteamID: "ghost", DiscordRoles: []string{"role-admin"}})

	assert.Empty(t, perms.GroupsOf("ghost"))
}

func TestApplyNoMappingIsNoOp(t *testing.T) {
	svc, perms := newTestSyncService("s1")

	svc.apply(&models.PermissionSyncRequest{SteamID: "s1", DiscordRoles: []string{"unmapped"}})

	assert.Empty(t, perms.GroupsOf("s1"))
}

func TestApplyIsIdempotent(t *testing.T) {
	svc, perms := newTestSyncService("s1")

	push := &models.PermissionSyncRequest{SteamID: "s1", DiscordRoles: []string{"role-vip"}}
	svc.apply(push)
	before := perms.GroupsOf("s1")

	svc.apply(push)
	assert.Equal(t, before, perms.GroupsOf("s1"))
}

func TestEnqueueAndRun(t *testing.T) {
	svc, perms := newTestSyncService("s1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	assert.True(t, svc.Enqueue(models.PermissionSyncRequest{SteamID: "s1", DiscordRoles: []string{"role-admin"}}))

	require.Eventually(t, func() bool {
		has, _ := perms.HasGroup("s1", "admin")
		return has
	}, time.Second, 5*time.Millisecond)
}
