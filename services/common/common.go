package common

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
)

func IsAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	// Use member data from the interaction - no privileged intent needed
	if i.Member == nil {
		return false
	}

	for _, roleID := range i.Member.Roles {
		role, err := s.State.Role(i.GuildID, roleID)
		if err != nil || role == nil {
			roles, err := s.GuildRoles(i.GuildID)
			if err != nil {
				log.Error().Err(err).Str("guild_id", i.GuildID).Msg("error fetching roles from API")
				continue
			}

			for _, r := range roles {
				if r.ID == roleID {
					role = r
					break
				}
			}

			if role == nil {
				log.Warn().Str("role_id", roleID).Str("guild_id", i.GuildID).Msg("role not found in guild")
				continue
			}
		}

		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}

// HasAnyRole reports whether the invoking member carries one of roleIDs.
func HasAnyRole(i *discordgo.InteractionCreate, roleIDs ...string) bool {
	if i.Member == nil {
		return false
	}
	for _, roleID := range i.Member.Roles {
		if Contains(roleIDs, roleID) {
			return true
		}
	}
	return false
}

// IsStaff accepts the configured root/admin roles, falling back to the
// Discord administrator permission when no roles are configured.
func IsStaff(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	staff := config.Settings.StaffRoleIDs()
	if len(staff) == 0 {
		return IsAdmin(s, i)
	}
	return HasAnyRole(i, staff...)
}

func IsRoot(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if len(config.Settings.RootRoleIDs) == 0 {
		return IsAdmin(s, i)
	}
	return HasAnyRole(i, config.Settings.RootRoleIDs...)
}

// InteractionUser returns the invoking user for guild and DM interactions alike.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func SendError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, db *gorm.DB) {
	guildId := ""
	userId := ""
	command := ""
	if i != nil {
		guildId = i.GuildID
		if user := InteractionUser(i); user != nil {
			userId = user.ID
		}
		if i.Type == discordgo.InteractionApplicationCommand {
			command = i.ApplicationCommandData().Name
		}
	}
	log.Error().Err(err).Str("guild_id", guildId).Str("user_id", userId).Str("command", command).Msg("interaction failed")

	if i != nil && s != nil {
		content := fmt.Sprintf("An error occured: %v", err)
		localErr := RespondEphemeral(s, i, content)
		if localErr != nil {
			// Already acknowledged (deferred); fall back to a followup.
			localErr = FollowupEphemeral(s, i, content)
		}
		if localErr != nil {
			log.Error().Err(localErr).Msg("error sending interaction error")
		}
	}

	if db == nil {
		return
	}
	errLog := models.ErrorLog{
		GuildID: guildId,
		UserID:  userId,
		Command: command,
		Message: fmt.Sprintf("%v", err),
	}
	if result := db.Create(&errLog); result.Error != nil {
		log.Error().Err(result.Error).Msg("error saving error log")
	}
}

func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func Defer(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func FollowupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

func Followup(s *discordgo.Session, i *discordgo.InteractionCreate, params *discordgo.WebhookParams) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, params)
	return err
}

// LogAction records an administrative action and mirrors it to the log channel.
func LogAction(s *discordgo.Session, message string) {
	log.Info().Str("action", message).Msg("admin action")
	if s == nil || config.Settings.LogChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSend(config.Settings.LogChannelID, message); err != nil {
		log.Error().Err(err).Msg("error sending log action")
	}
}

// OptionMap indexes command options by name.
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

// OptionUser resolves a user option from the interaction payload, falling back to the API.
func OptionUser(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) *discordgo.User {
	if id, ok := opt.Value.(string); ok {
		if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
			if user, ok := resolved.Users[id]; ok {
				return user
			}
		}
	}
	return opt.UserValue(s)
}

// GetUsernameFromUser extracts username from a discordgo.User object
func GetUsernameFromUser(user *discordgo.User) string {
	if user == nil {
		return "Unknown User"
	}
	username := user.GlobalName
	if username == "" {
		username = user.Username
	}
	if username == "" {
		return "Unknown User"
	}
	return username
}

func Plural(count int, singular string, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Title upper-cases the first letter of every word, as used in embed titles.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

func Contains[T comparable](s []T, e T) bool {
	for _, v := range s {
		if v == e {
			return true
		}
	}
	return false
}

// IsNotFound wraps the gorm sentinel so callers don't import gorm just for it.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
