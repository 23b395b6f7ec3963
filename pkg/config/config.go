package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

type IdentityConfig struct {
	Repo repository.Config `envPrefix:"REPO_"`

	DiscordToken    string   `env:"DISCORD_TOKEN" envDefault:""`
	GuildID         string   `env:"DISCORD_GUILD_ID" envDefault:""`
	VerifyChannelID string   `env:"VERIFY_CHANNEL_ID" envDefault:""`
	VerifiedRoleID  string   `env:"VERIFIED_ROLE_ID" envDefault:""`
	AdminUserIDs    []string `env:"ADMIN_USER_IDS" envSeparator:"," envDefault:""`
	StatusMessages  []string `env:"STATUS_MESSAGES" envSeparator:"," envDefault:""`

	HTTPPort       string        `env:"HTTP_PORT" envDefault:"3000"`
	GameServiceURL string        `env:"GAME_SERVICE_URL" envDefault:"http://localhost:3001"`
	CodeTTL        time.Duration `env:"LINK_CODE_TTL" envDefault:"10m"`
	AccountFile    string        `env:"ACCOUNT_FILE" envDefault:"linked_accounts.json"`

	LogLevel string `env:"LOGGER_LEVEL" envDefault:"debug"`
}

type GameConfig struct {
	HTTPPort           string               `env:"HTTP_PORT" envDefault:"3001"`
	IdentityServiceURL string               `env:"IDENTITY_SERVICE_URL" envDefault:"http://localhost:3000"`
	RoleMappings       []models.RoleMapping `env:"ROLE_MAPPINGS" envSeparator:","`

	LogLevel string `env:"LOGGER_LEVEL" envDefault:"debug"`
}

func ReadEnvConfig(cfg interface{}) error {
	return env.Parse(cfg)
}
