package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RoleMapping associates a Discord role with an in-game permission group.
// Priority breaks ties when a member holds several mapped roles.
type RoleMapping struct {
	DiscordRoleID   string `json:"discord_role_id"`
	PermissionGroup string `json:"permission_group"`
	Priority        int    `json:"priority"`
}

// UnmarshalText parses the "roleID:group:priority" form used in ROLE_MAPPINGS.
func (m *RoleMapping) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ":")
	if len(parts) != 3 {
		return fmt.Errorf("invalid role mapping %q, want roleID:group:priority", string(text))
	}

	priority, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return fmt.Errorf("invalid role mapping priority %q: %w", parts[2], err)
	}

	m.DiscordRoleID = strings.TrimSpace(parts[0])
	m.PermissionGroup = strings.TrimSpace(parts[1])
	m.Priority = priority

	if m.DiscordRoleID == "" || m.PermissionGroup == "" {
		return fmt.Errorf("invalid role mapping %q: empty role or group", string(text))
	}
	return nil
}

// PermissionSyncRequest is the payload pushed from the identity service to the
// game service. Lives only for the duration of one resolve-and-grant pass.
type PermissionSyncRequest struct {
	SteamID      string   `json:"steamId"`
	DiscordRoles []string `json:"discordRoles"`
}
