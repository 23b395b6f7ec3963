package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
	"linkbridge/internal/repository"
	"linkbridge/pkg/config"
)

type Bot struct {
	session  *discordgo.Session
	services *application.Service
	settings repository.Settings
	logger   application.Logger

	guildID         string
	verifyChannelID string
	verifiedRoleID  string
	adminIDs        map[string]struct{}
	statusMessages  []string
}

func NewBot(cfg *config.IdentityConfig, services *application.Service, settings repository.Settings, logger application.Logger) *Bot {
	s, _ := discordgo.New("Bot " + cfg.DiscordToken)
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	admins := make(map[string]struct{})
	for _, id := range cfg.AdminUserIDs {
		cleanID := strings.TrimSpace(id)
		if cleanID != "" {
			admins[cleanID] = struct{}{}
		}
	}

	statuses := cfg.StatusMessages
	if len(statuses) == 0 {
		statuses = []string{"Verifying players"}
	}

	return &Bot{
		session:         s,
		services:        services,
		settings:        settings,
		logger:          logger,
		guildID:         cfg.GuildID,
		verifyChannelID: cfg.VerifyChannelID,
		verifiedRoleID:  cfg.VerifiedRoleID,
		adminIDs:        admins,
		statusMessages:  statuses,
	}
}

var commands = []*discordgo.ApplicationCommand{
	{Name: "linkstatus", Description: "Show whether your account is linked to a game account"},
	{Name: "export", Description: "Export all linked accounts to Excel (admins only)"},
}

func (b *Bot) Init() error {
	b.session.AddHandler(b.onInteraction)
	return nil
}

func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return err
	}

	b.logger.Info("Discord bot started. Registering slash commands...")

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, commands)
	if err != nil {
		b.logger.Error("Failed to register commands: %v", err)
	} else {
		b.logger.Info("Slash commands registered successfully")
	}

	b.reassignVerifiedRoles()
	b.ensureVerificationMessage()

	go b.rotatePresence(ctx)
	return nil
}

func (b *Bot) Stop() {
	b.session.Close()
}

// MemberRoleIDs implements application.RoleProvider.
func (b *Bot) MemberRoleIDs(discordID string) ([]string, error) {
	member, err := b.session.GuildMember(b.guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild member %s: %w", discordID, err)
	}
	return member.Roles, nil
}

// NotifyLinked implements application.ChatNotifier: DM the user and grant the
// verified role after a successful link.
func (b *Bot) NotifyLinked(link *models.AccountLink) {
	b.assignVerifiedRole(link.DiscordID)

	channel, err := b.session.UserChannelCreate(link.DiscordID)
	if err != nil {
		b.logger.Warn("Could not open DM channel for %s: %v", link.DiscordID, err)
		return
	}

	msg := fmt.Sprintf("Your account has been successfully linked to Steam account: %s (%s)\nYou've been granted the verified role!",
		link.SteamName, link.SteamID)
	if _, err := b.session.ChannelMessageSend(channel.ID, msg); err != nil {
		b.logger.Warn("Could not DM user %s: %v", link.DiscordID, err)
	}
}

func (b *Bot) assignVerifiedRole(discordID string) {
	if b.verifiedRoleID == "" {
		return
	}
	if err := b.session.GuildMemberRoleAdd(b.guildID, discordID, b.verifiedRoleID); err != nil {
		b.logger.Error("Failed to assign verified role to %s: %v", discordID, err)
	}
}

// reassignVerifiedRoles restores the verified role for every linked account,
// covering links created while the bot was down.
func (b *Bot) reassignVerifiedRoles() {
	links, err := b.services.LinkService.GetAllLinks()
	if err != nil {
		b.logger.Error("Failed to load linked accounts: %v", err)
		return
	}
	for _, link := range links {
		b.assignVerifiedRole(link.DiscordID)
	}
	b.logger.Info("Verified role checked for %d linked accounts", len(links))
}

func (b *Bot) rotatePresence(ctx context.Context) {
	ticker := time.NewTicker(presenceInterval)
	defer ticker.Stop()

	idx := 0
	for {
		status := fmt.Sprintf("Verifying players | %s", b.statusMessages[idx])
		if err := b.session.UpdateGameStatus(0, status); err != nil {
			b.logger.Debug("Failed to update presence: %v", err)
		}
		idx = (idx + 1) % len(b.statusMessages)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ensureVerificationMessage posts the verification embed with the Verify
// button, editing the previous message when one is on record.
func (b *Bot) ensureVerificationMessage() {
	if b.verifyChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Verification",
		Description: "Click the verify button to link your Discord account with your game account.",
		Color:       colorVerify,
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: verifyButtonID,
					Label:    "Verify",
					Style:    discordgo.SuccessButton,
				},
			},
		},
	}

	if messageID, err := b.settings.GetSetting(verifyMessageKey); err == nil && messageID != "" {
		_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         messageID,
			Channel:    b.verifyChannelID,
			Embeds:     &[]*discordgo.MessageEmbed{embed},
			Components: &components,
		})
		if err == nil {
			return
		}
		b.logger.Warn("Could not edit verification message %s, sending a new one: %v", messageID, err)
	}

	msg, err := b.session.ChannelMessageSendComplex(b.verifyChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		b.logger.Error("Failed to send verification message: %v", err)
		return
	}
	if err := b.settings.SetSetting(verifyMessageKey, msg.ID); err != nil {
		b.logger.Error("Failed to persist verification message ID: %v", err)
	}
}
