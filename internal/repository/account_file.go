package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"linkbridge/internal/models"
)

type fileData struct {
	Accounts []models.AccountLink `json:"linked_accounts"`
	Settings map[string]string    `json:"settings"`
}

// AccountFile keeps linked accounts in a JSON file, loaded once at startup.
// Lookups go through in-memory maps; the Steam-side map is the secondary
// index, so neither direction is a linear scan.
type AccountFile struct {
	mu        sync.RWMutex
	path      string
	byDiscord map[string]models.AccountLink
	bySteam   map[string]models.AccountLink
	settings  map[string]string
}

func NewAccountFile(path string) (*AccountFile, error) {
	s := &AccountFile{
		path:      path,
		byDiscord: make(map[string]models.AccountLink),
		bySteam:   make(map[string]models.AccountLink),
		settings:  make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AccountFile) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read account file: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse account file: %w", err)
	}

	for _, link := range data.Accounts {
		s.byDiscord[link.DiscordID] = link
		s.bySteam[link.SteamID] = link
	}
	if data.Settings != nil {
		s.settings = data.Settings
	}
	return nil
}

// persist writes through a temp file and renames, so a crash mid-write never
// truncates the store.
func (s *AccountFile) persist() error {
	data := fileData{
		Accounts: make([]models.AccountLink, 0, len(s.byDiscord)),
		Settings: s.settings,
	}
	for _, link := range s.byDiscord {
		data.Accounts = append(data.Accounts, link)
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode account file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create account dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write account file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace account file: %w", err)
	}
	return nil
}

func (s *AccountFile) Insert(link *models.AccountLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byDiscord[link.DiscordID]; exists {
		return ErrConflict
	}
	if _, exists := s.bySteam[link.SteamID]; exists {
		return ErrConflict
	}

	stored := *link
	if stored.LinkedAt.IsZero() {
		stored.LinkedAt = time.Now()
	}

	s.byDiscord[stored.DiscordID] = stored
	s.bySteam[stored.SteamID] = stored

	if err := s.persist(); err != nil {
		delete(s.byDiscord, stored.DiscordID)
		delete(s.bySteam, stored.SteamID)
		return err
	}
	return nil
}

func (s *AccountFile) GetLinkByDiscordID(discordID string) (*models.AccountLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.byDiscord[discordID]
	if !ok {
		return nil, nil
	}
	out := link
	return &out, nil
}

func (s *AccountFile) GetLinkBySteamID(steamID string) (*models.AccountLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.bySteam[steamID]
	if !ok {
		return nil, nil
	}
	out := link
	return &out, nil
}

func (s *AccountFile) GetAllLinks() ([]models.AccountLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]models.AccountLink, 0, len(s.byDiscord))
	for _, link := range s.byDiscord {
		links = append(links, link)
	}
	return links, nil
}

func (s *AccountFile) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *AccountFile) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, had := s.settings[key]
	s.settings[key] = value
	if err := s.persist(); err != nil {
		if had {
			s.settings[key] = old
		} else {
			delete(s.settings, key)
		}
		return err
	}
	return nil
}
