package application

import "linkbridge/internal/models"

// ResolvePermissionGroup picks the permission group for a set of Discord role
// IDs. The table is scanned in configuration order and a later entry replaces
// the current best only on strictly higher priority, so ties deterministically
// keep the earlier entry. Returns false when nothing matches.
func ResolvePermissionGroup(roleIDs []string, table []models.RoleMapping) (string, bool) {
	held := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = struct{}{}
	}

	var best *models.RoleMapping
	for i := range table {
		mapping := &table[i]
		if _, ok := held[mapping.DiscordRoleID]; !ok {
			continue
		}
		if best == nil || mapping.Priority > best.Priority {
			best = mapping
		}
	}

	if best == nil {
		return "", false
	}
	return best.PermissionGroup, true
}
