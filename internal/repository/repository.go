package repository

import (
	"database/sql"
	"errors"

	"linkbridge/internal/models"
)

var (
	// ErrConflict is returned by Insert when either identity is already linked.
	ErrConflict = errors.New("account already linked")

	ErrNotFound = errors.New("not found")
)

type Account interface {
	// Insert persists a new link. Fails with ErrConflict if the Discord ID or
	// the Steam ID is already present; a failed insert leaves no partial state.
	Insert(link *models.AccountLink) error
	GetLinkByDiscordID(discordID string) (*models.AccountLink, error)
	GetLinkBySteamID(steamID string) (*models.AccountLink, error)
	GetAllLinks() ([]models.AccountLink, error)
}

type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type Repository struct {
	Account
	Settings
}

func NewPostgresRepository(db *sql.DB) *Repository {
	accounts := NewAccountPostgres(db)
	return &Repository{
		Account:  accounts,
		Settings: accounts,
	}
}

func NewFileRepository(path string) (*Repository, error) {
	accounts, err := NewAccountFile(path)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Account:  accounts,
		Settings: accounts,
	}, nil
}
