package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"linkbridge/internal/models"
)

type AccountPostgres struct {
	db *sql.DB
}

func NewAccountPostgres(db *sql.DB) *AccountPostgres {
	return &AccountPostgres{db: db}
}

func (r *AccountPostgres) Insert(link *models.AccountLink) error {
	err := r.db.QueryRow(`
		INSERT INTO linked_accounts (discord_id, steam_id, steam_name)
		VALUES ($1, $2, $3)
		RETURNING linked_at
	`, link.DiscordID, link.SteamID, link.SteamName).Scan(&link.LinkedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert linked account: %w", err)
	}
	return nil
}

func (r *AccountPostgres) GetLinkByDiscordID(discordID string) (*models.AccountLink, error) {
	return r.getLink(`
		SELECT discord_id, steam_id, steam_name, linked_at
		FROM linked_accounts
		WHERE discord_id = $1
	`, discordID)
}

func (r *AccountPostgres) GetLinkBySteamID(steamID string) (*models.AccountLink, error) {
	return r.getLink(`
		SELECT discord_id, steam_id, steam_name, linked_at
		FROM linked_accounts
		WHERE steam_id = $1
	`, steamID)
}

func (r *AccountPostgres) getLink(query, arg string) (*models.AccountLink, error) {
	var link models.AccountLink
	err := r.db.QueryRow(query, arg).Scan(
		&link.DiscordID, &link.SteamID, &link.SteamName, &link.LinkedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked account: %w", err)
	}
	return &link, nil
}

func (r *AccountPostgres) GetAllLinks() ([]models.AccountLink, error) {
	rows, err := r.db.Query(`
		SELECT discord_id, steam_id, steam_name, linked_at
		FROM linked_accounts
		ORDER BY linked_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accounts: %w", err)
	}
	defer rows.Close()

	var links []models.AccountLink
	for rows.Next() {
		var link models.AccountLink
		if err := rows.Scan(&link.DiscordID, &link.SteamID, &link.SteamName, &link.LinkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan linked account: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *AccountPostgres) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

func (r *AccountPostgres) SetSetting(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
