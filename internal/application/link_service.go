package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

type syncJob struct {
	id      string
	steamID string
}

type LinkServiceImpl struct {
	accounts repository.Account
	codes    *repository.CodeRegistry
	game     GameNotifier
	logger   Logger

	// mu serializes redeem-and-insert so two codes racing for the same Steam
	// account resolve deterministically: one wins, the other gets ErrSteamTaken.
	mu    sync.Mutex
	queue chan syncJob

	roles    RoleProvider
	notifier ChatNotifier
}

func NewLinkServiceImpl(repos *repository.Repository, codes *repository.CodeRegistry, game GameNotifier, logger Logger) *LinkServiceImpl {
	return &LinkServiceImpl{
		accounts: repos.Account,
		codes:    codes,
		game:     game,
		logger:   logger,
		queue:    make(chan syncJob, syncQueueSize),
	}
}

// AttachChat wires the Discord-facing collaborators. The bot is constructed
// after the service, so this cannot happen in the constructor.
func (s *LinkServiceImpl) AttachChat(roles RoleProvider, notifier ChatNotifier) {
	s.roles = roles
	s.notifier = notifier
}

func (s *LinkServiceImpl) RequestCode(discordID string) (models.LinkCode, error) {
	existing, err := s.accounts.GetLinkByDiscordID(discordID)
	if err != nil {
		return models.LinkCode{}, fmt.Errorf("failed to check existing link: %w", err)
	}
	if existing != nil {
		return models.LinkCode{}, fmt.Errorf("%w to Steam ID %s", ErrAlreadyLinked, existing.SteamID)
	}

	code := s.codes.Issue(discordID)
	s.logger.Info("Issued linking code for Discord user %s", discordID)
	return code, nil
}

func (s *LinkServiceImpl) RedeemCode(code, steamID, steamName string) (*models.AccountLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.codes.Redeem(code)
	if !ok {
		return nil, ErrInvalidCode
	}

	// The code is consumed either way: a conflicting redemption burns it,
	// same as a successful one.
	existing, err := s.accounts.GetLinkBySteamID(steamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check steam link: %w", err)
	}
	if existing != nil {
		return nil, ErrSteamTaken
	}

	link := &models.AccountLink{
		DiscordID: pending.DiscordID,
		SteamID:   steamID,
		SteamName: steamName,
	}
	if err := s.accounts.Insert(link); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSteamTaken
		}
		return nil, fmt.Errorf("failed to persist link: %w", err)
	}

	s.logger.Info("Linked Discord user %s to Steam account %s (%s)", link.DiscordID, steamName, steamID)

	if s.notifier != nil {
		s.notifier.NotifyLinked(link)
	}
	s.RequestSync(steamID)

	return link, nil
}

func (s *LinkServiceImpl) GetLinkBySteamID(steamID string) (*models.AccountLink, error) {
	return s.accounts.GetLinkBySteamID(steamID)
}

func (s *LinkServiceImpl) GetLinkByDiscordID(discordID string) (*models.AccountLink, error) {
	return s.accounts.GetLinkByDiscordID(discordID)
}

func (s *LinkServiceImpl) GetAllLinks() ([]models.AccountLink, error) {
	return s.accounts.GetAllLinks()
}

// RequestSync queues a role push for the given Steam account. Fire-and-forget:
// a full queue drops the job with a warning, re-requesting later is safe.
func (s *LinkServiceImpl) RequestSync(steamID string) bool {
	job := syncJob{id: uuid.NewString(), steamID: steamID}
	select {
	case s.queue <- job:
		s.logger.Debug("Queued permission sync %s for Steam ID %s", job.id, steamID)
		return true
	default:
		s.logger.Warn("Sync queue full, dropping sync for Steam ID %s", steamID)
		return false
	}
}

// Run drains the sync queue until the context is cancelled. Runs on its own
// goroutine so HTTP handlers never block on cross-service calls.
func (s *LinkServiceImpl) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.processSync(job)
		}
	}
}

func (s *LinkServiceImpl) processSync(job syncJob) {
	link, err := s.accounts.GetLinkBySteamID(job.steamID)
	if err != nil {
		s.logger.Error("Sync %s: failed to look up Steam ID %s: %v", job.id, job.steamID, err)
		return
	}
	if link == nil {
		s.logger.Warn("Sync %s: Steam ID %s is not linked, nothing to push", job.id, job.steamID)
		return
	}

	if s.roles == nil {
		s.logger.Warn("Sync %s: no role provider attached", job.id)
		return
	}

	roleIDs, err := s.roles.MemberRoleIDs(link.DiscordID)
	if err != nil {
		s.logger.Error("Sync %s: failed to fetch roles for Discord user %s: %v", job.id, link.DiscordID, err)
		return
	}

	req := &models.PermissionSyncRequest{
		SteamID:      link.SteamID,
		DiscordRoles: roleIDs,
	}
	if err := s.game.SyncPermissions(req); err != nil {
		s.logger.Error("Sync %s: failed to push permissions for Steam ID %s: %v", job.id, link.SteamID, err)
		return
	}

	s.logger.Info("Sync %s: pushed %d roles for Steam ID %s", job.id, len(roleIDs), link.SteamID)
}

// ExportReport renders all linked accounts as an xlsx workbook.
func (s *LinkServiceImpl) ExportReport() ([]byte, error) {
	links, err := s.accounts.GetAllLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, exportSheetName)

	headers := []string{"Discord ID", "Steam ID", "Steam Name", "Linked At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, h)
	}

	for row, link := range links {
		values := []interface{}{link.DiscordID, link.SteamID, link.SteamName, link.LinkedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}
