package discord

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"linkbridge/internal/application"
)

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID == verifyButtonID {
			b.handleVerifyButton(s, i.Interaction)
		}
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "linkstatus":
			b.handleLinkStatus(s, i.Interaction)
		case "export":
			b.ensureAdmin(s, i.Interaction, b.handleExport)
		}
	}
}

func (b *Bot) handleVerifyButton(s *discordgo.Session, i *discordgo.Interaction) {
	userID := i.Member.User.ID

	code, err := b.services.LinkService.RequestCode(userID)
	if errors.Is(err, application.ErrAlreadyLinked) {
		link, lookupErr := b.services.LinkService.GetLinkByDiscordID(userID)
		if lookupErr != nil || link == nil {
			b.respondMessage(s, i, "Your account is already linked.", true)
			return
		}
		b.respondMessage(s, i, fmt.Sprintf("Your account is already linked to Steam ID: %s", link.SteamID), true)
		return
	}
	if err != nil {
		b.logger.Error("Failed to issue code for %s: %v", userID, err)
		b.respondMessage(s, i, "Something went wrong, try again later.", true)
		return
	}

	minutes := int(time.Until(code.ExpiresAt).Round(time.Minute).Minutes())
	b.respondMessage(s, i,
		fmt.Sprintf("Do `/link %s` in-game to link your account.\nThis code expires in %d minutes.", code.Code, minutes),
		true)
}

func (b *Bot) handleLinkStatus(s *discordgo.Session, i *discordgo.Interaction) {
	userID := i.Member.User.ID

	link, err := b.services.LinkService.GetLinkByDiscordID(userID)
	if err != nil {
		b.logger.Error("Failed to check link for %s: %v", userID, err)
		b.respondMessage(s, i, "Something went wrong, try again later.", true)
		return
	}

	if link == nil {
		embed := &discordgo.MessageEmbed{
			Title:       "Not linked",
			Description: "Your account is not linked. Click the Verify button to get a linking code.",
			Color:       colorYellow,
		}
		b.respondEmbed(s, i, embed, true)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Linked",
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Steam name", Value: link.SteamName, Inline: true},
			{Name: "Steam ID", Value: link.SteamID, Inline: true},
			{Name: "Linked at", Value: link.LinkedAt.Format("2006-01-02 15:04"), Inline: false},
		},
	}
	b.respondEmbed(s, i, embed, true)
}

func (b *Bot) handleExport(s *discordgo.Session, i *discordgo.Interaction) {
	s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})

	data, err := b.services.LinkService.ExportReport()
	if err != nil {
		b.logger.Error("Export error: %v", err)
		s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
			Content: &[]string{"Export failed: " + err.Error()}[0],
		})
		return
	}

	s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &[]string{"Here is the linked accounts report."}[0],
		Files: []*discordgo.File{
			{Name: "linked_accounts.xlsx", Reader: bytes.NewReader(data)},
		},
	})
}
