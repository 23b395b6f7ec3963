package application

import (
	"context"
	"errors"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

var (
	// ErrAlreadyLinked means the Discord account already has a link.
	ErrAlreadyLinked = errors.New("account is already linked")

	// ErrInvalidCode covers codes that were never issued, already redeemed,
	// or past their TTL.
	ErrInvalidCode = errors.New("invalid or expired code")

	// ErrSteamTaken means the Steam account is bound to another Discord account.
	ErrSteamTaken = errors.New("steam account is already linked to another discord account")
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// RoleProvider reports the current Discord role IDs of a guild member.
// Implemented by the Discord bot.
type RoleProvider interface {
	MemberRoleIDs(discordID string) ([]string, error)
}

// ChatNotifier delivers out-of-band notifications on the chat platform after a
// successful link. Implemented by the Discord bot.
type ChatNotifier interface {
	NotifyLinked(link *models.AccountLink)
}

// GameNotifier pushes a permission sync toward the game service.
type GameNotifier interface {
	SyncPermissions(req *models.PermissionSyncRequest) error
}

// Permissions is the in-game permission group backend.
type Permissions interface {
	HasGroup(steamID, group string) (bool, error)
	AddToGroup(steamID, group string) error
}

// PlayerRegistry reports which players the game server currently knows.
type PlayerRegistry interface {
	IsOnline(steamID string) bool
}

type LinkService interface {
	RequestCode(discordID string) (models.LinkCode, error)
	RedeemCode(code, steamID, steamName string) (*models.AccountLink, error)
	GetLinkBySteamID(steamID string) (*models.AccountLink, error)
	GetLinkByDiscordID(discordID string) (*models.AccountLink, error)
	GetAllLinks() ([]models.AccountLink, error)
	RequestSync(steamID string) bool
	ExportReport() ([]byte, error)
	AttachChat(roles RoleProvider, notifier ChatNotifier)
	Run(ctx context.Context)
}

type PermissionSyncService interface {
	Enqueue(req models.PermissionSyncRequest) bool
	Run(ctx context.Context)
}

type Service struct {
	LinkService LinkService
}

func NewService(repos *repository.Repository, codes *repository.CodeRegistry, game GameNotifier, logger Logger) *Service {
	return &Service{
		LinkService: NewLinkServiceImpl(repos, codes, game, logger),
	}
}
