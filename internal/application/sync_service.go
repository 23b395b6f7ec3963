package application

import (
	"context"

	"linkbridge/internal/models"
)

// PermissionSyncServiceImpl applies role pushes on the game side. Pushes are
// queued and drained by a dedicated worker, so the thread accepting inbound
// requests never runs a grant. Duplicate pushes and pushes for unknown players
// are both harmless.
type PermissionSyncServiceImpl struct {
	mappings []models.RoleMapping
	players  PlayerRegistry
	perms    Permissions
	logger   Logger
	queue    chan models.PermissionSyncRequest
}

func NewPermissionSyncServiceImpl(mappings []models.RoleMapping, players PlayerRegistry, perms Permissions, logger Logger) *PermissionSyncServiceImpl {
	return &PermissionSyncServiceImpl{
		mappings: mappings,
		players:  players,
		perms:    perms,
		logger:   logger,
		queue:    make(chan models.PermissionSyncRequest, syncQueueSize),
	}
}

// Enqueue accepts a push for asynchronous processing. The response to the
// caller only acknowledges receipt.
func (s *PermissionSyncServiceImpl) Enqueue(req models.PermissionSyncRequest) bool {
	select {
	case s.queue <- req:
		return true
	default:
		s.logger.Warn("Permission sync queue full, dropping push for Steam ID %s", req.SteamID)
		return false
	}
}

func (s *PermissionSyncServiceImpl) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.queue:
			s.apply(&req)
		}
	}
}

func (s *PermissionSyncServiceImpl) apply(req *models.PermissionSyncRequest) {
	if !s.players.IsOnline(req.SteamID) {
		s.logger.Warn("Player with Steam ID %s is not online, skipping permission sync", req.SteamID)
		return
	}

	group, ok := ResolvePermissionGroup(req.DiscordRoles, s.mappings)
	if !ok {
		s.logger.Info("No permission group mapping found for Steam ID %s", req.SteamID)
		return
	}

	has, err := s.perms.HasGroup(req.SteamID, group)
	if err != nil {
		s.logger.Error("Failed to check group %s for Steam ID %s: %v", group, req.SteamID, err)
		return
	}
	if has {
		s.logger.Debug("Steam ID %s already in group %s", req.SteamID, group)
		return
	}

	if err := s.perms.AddToGroup(req.SteamID, group); err != nil {
		s.logger.Error("Failed to add Steam ID %s to group %s: %v", req.SteamID, group, err)
		return
	}
	s.logger.Info("Synced permissions for Steam ID %s - added to group %s", req.SteamID, group)
}
