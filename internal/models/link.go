package models

import "time"

type AccountLink struct {
	DiscordID string    `json:"discord_id"`
	SteamID   string    `json:"steam_id"`
	SteamName string    `json:"steam_name"`
	LinkedAt  time.Time `json:"linked_at"`
}

type LinkCode struct {
	Code      string    `json:"code"`
	DiscordID string    `json:"discord_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
