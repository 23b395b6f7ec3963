package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkbridge/internal/models"
)

func TestResolveHigherPriorityWins(t *testing.T) {
	table := []models.RoleMapping{
		{DiscordRoleID: "A", PermissionGroup: "groupX", Priority: 10},
		{DiscordRoleID: "B", PermissionGroup: "groupY", Priority: 50},
	}

	group, ok := ResolvePermissionGroup([]string{"A", "B"}, table)
	assert.True(t, ok)
	assert.Equal(t, "groupY", group)
}

func TestResolveTieKeepsEarlierEntry(t *testing.T) {
	table := []models.RoleMapping{
		{DiscordRoleID: "A", PermissionGroup: "groupX", Priority: 50},
		{DiscordRoleID: "B", PermissionGroup: "groupY", Priority: 50},
	}

	group, ok := ResolvePermissionGroup([]string{"A", "B"}, table)
	assert.True(t, ok)
	assert.Equal(t, "groupX", group)
}

func TestResolveIgnoresUnheldRoles(t *testing.T) {
	table := []models.RoleMapping{
		{DiscordRoleID: "A", PermissionGroup: "admin", Priority: 100},
		{DiscordRoleID: "B", PermissionGroup: "vip", Priority: 50},
	}

	group, ok := ResolvePermissionGroup([]string{"B", "C"}, table)
	assert.True(t, ok)
	assert.Equal(t, "vip", group)
}

func TestResolveEmptyInputs(t *testing.T) {
	table := []models.RoleMapping{
		{DiscordRoleID: "A", PermissionGroup: "admin", Priority: 100},
	}

	_, ok := ResolvePermissionGroup(nil, table)
	assert.False(t, ok)

	_, ok = ResolvePermissionGroup([]string{"A"}, nil)
	assert.False(t, ok)

	_, ok = ResolvePermissionGroup([]string{"X"}, table)
	assert.False(t, ok)
}
