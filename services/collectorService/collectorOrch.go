package collectorService

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/ballService"
	"ballsDexBot/services/common"
)

const (
	ConfirmPrefix = "collector_confirm_"
	CancelPrefix  = "collector_cancel_"

	cardColor = 0xBE64BE
)

// pendingDeletion is an unmet card purge waiting for its author to confirm.
type pendingDeletion struct {
	UserID      string
	Tier        Tier
	InstanceIDs []uint
}

var pendingDeletions = common.NewTTLStore[pendingDeletion](15 * time.Minute)

// SweepPending drops expired confirmations and returns how many were removed.
func SweepPending() int {
	return pendingDeletions.Sweep()
}

func HandleCollectorCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	var err error
	sub := options[0]
	switch sub.Name {
	case "card":
		err = CreateCard(s, i, db, sub.Options)
	case "list":
		err = ListCards(s, i, db, sub.Options)
	case "admin":
		if len(sub.Options) > 0 && sub.Options[0].Name == "check" {
			err = CheckCards(s, i, db, sub.Options[0].Options)
		}
	}

	if err != nil {
		common.SendError(s, i, err, db)
	}
}

func diamondOption(optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption) bool {
	if opt, ok := optionMap["diamond"]; ok {
		return opt.BoolValue()
	}
	return false
}

// countTowards counts the instances of ball the player holds that count towards tier.
func countTowards(db *gorm.DB, tier Tier, playerID uint, ballID uint) (int64, error) {
	if !tier.ShinyOnly {
		return ballService.CountInstances(db, playerID, ballID, nil)
	}
	shiny, err := ballService.GetSpecialByName(db, ShinySpecial)
	if err != nil {
		return 0, err
	}
	return ballService.CountInstances(db, playerID, ballID, &shiny.ID)
}

func CreateCard(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	optionMap := common.OptionMap(options)
	tier := TierFor(diamondOption(optionMap))
	opt, ok := optionMap["countryball"]
	if !ok {
		return fmt.Errorf("missing countryball option")
	}

	ball, err := ballService.FindEnabledBall(db, opt.StringValue())
	if errors.Is(err, ballService.ErrBallNotFound) {
		return common.FollowupEphemeral(s, i, fmt.Sprintf("That %s could not be found.", config.Settings.CollectibleName))
	}
	if err != nil {
		return err
	}

	card, err := ballService.GetSpecialByName(db, tier.SpecialName)
	if err != nil {
		return err
	}
	player, err := ballService.GetOrCreatePlayer(db, common.InteractionUser(i))
	if err != nil {
		return err
	}

	owned, err := ballService.CountInstances(db, player.ID, ball.ID, &card.ID)
	if err != nil {
		return err
	}
	if owned >= 1 {
		return common.FollowupEphemeral(s, i, fmt.Sprintf("You already have a %s %s card.", ball.Country, tier.Name))
	}

	count, err := countTowards(db, tier, player.ID, ball.ID)
	if err != nil {
		return err
	}
	required := tier.Requirement(ball.Rarity)

	if count < int64(required) {
		return common.FollowupEphemeral(s, i, fmt.Sprintf("You need %d%s %s to create a %s card. You currently have %d.",
			required, tier.shinyText(), ball.Country, tier.Name, count))
	}

	instance := &models.BallInstance{
		BallID:    ball.ID,
		PlayerID:  player.ID,
		SpecialID: &card.ID,
	}
	if err := ballService.CreateInstance(db, instance); err != nil {
		return err
	}

	log.Info().Str("user_id", player.DiscordID).Str("ball", ball.Country).Str("card", tier.Name).Msg("card created")

	suffix := ""
	if tier.ShinyOnly {
		suffix = " " + tier.Name
	}
	return common.FollowupEphemeral(s, i, fmt.Sprintf("Congratulations! You are now a %s%s collector.", ball.Country, suffix))
}

// requirementFields lists the requirement of every ball, in the order given.
func requirementFields(balls []models.Ball, tier Tier) []common.PageField {
	fields := make([]common.PageField, 0, len(balls))
	for _, ball := range balls {
		emoji := ball.Emoji()
		if emoji == "" {
			emoji = "N/A"
		}
		fields = append(fields, common.PageField{
			Name:  ball.Country,
			Value: fmt.Sprintf("%s%s Amount required: %d", emoji, tier.shinyText(), tier.Requirement(ball.Rarity)),
		})
	}
	return fields
}

func ListCards(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	tier := TierFor(diamondOption(common.OptionMap(options)))

	balls, err := ballService.EnabledBalls(db)
	if err != nil {
		return err
	}
	if len(balls) == 0 {
		return common.RespondEphemeral(s, i, fmt.Sprintf("There are no collectibles registered in %s yet.", config.Settings.BotName))
	}

	user := common.InteractionUser(i)
	paginator := &common.Paginator{
		Description: fmt.Sprintf("__**%s %s Card List**__", config.Settings.BotName, tier.Title()),
		Color:       cardColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    common.GetUsernameFromUser(user),
			IconURL: user.AvatarURL(""),
		},
		Fields: requirementFields(balls, tier),
	}
	return common.SendPages(s, i, paginator, false)
}

func ownerName(player models.Player) string {
	if player.Username != nil && *player.Username != "" {
		return *player.Username
	}
	return player.DiscordID
}

// cardStatus builds the check entry for one card given how many qualifying
// instances its owner still holds.
func cardStatus(tier Tier, instance models.BallInstance, held int64) (common.PageField, bool) {
	required := tier.Requirement(instance.Ball.Rarity)
	met := held >= int64(required)

	name := common.Plural(int(held), config.Settings.CollectibleName, config.Settings.PluralCollectibleName)
	holding := fmt.Sprintf("%s has **%d**%s %s %s", ownerName(instance.Player), held, tier.shinyText(), instance.Ball.Country, name)

	status := "**Not enough to maintain** ⚠️\n---"
	if met {
		status = "**Enough to maintain ✅**\n---"
	}

	label := instance.Description()
	if emoji := instance.Ball.Emoji(); emoji != "" {
		label = emoji + " " + label
	}

	return common.PageField{
		Name:  label,
		Value: fmt.Sprintf("%s(%s)\n%s\n%s", ownerName(instance.Player), instance.Player.DiscordID, holding, status),
	}, met
}

// emptyCheckMessage is shown when a check finds nothing to report.
func emptyCheckMessage(tier Tier, option string, ball *models.Ball, user *discordgo.User) string {
	unmet := " unmet"
	if option == "ALL" {
		unmet = ""
	}
	ballText := ""
	if ball != nil {
		ballText = " " + ball.Country
	}
	if user == nil {
		return fmt.Sprintf("There are no%s%s %s cards!", unmet, ballText, tier.Name)
	}
	return fmt.Sprintf("%s has no%s%s %s cards!", common.GetUsernameFromUser(user), unmet, ballText, tier.Name)
}

func unmetListing(instances []models.BallInstance) string {
	var b strings.Builder
	for _, instance := range instances {
		b.WriteString(fmt.Sprintf("%s's %s\n", ownerName(instance.Player), instance.Description()))
	}
	return b.String()
}

func CheckCards(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if !common.IsStaff(s, i) {
		return common.RespondEphemeral(s, i, "You are not authorized to use this command.")
	}

	optionMap := common.OptionMap(options)
	tier := TierFor(diamondOption(optionMap))
	option := "ALL"
	if opt, ok := optionMap["option"]; ok {
		option = opt.StringValue()
	}

	if option == "DELETE" && !common.IsRoot(s, i) {
		return common.RespondEphemeral(s, i, fmt.Sprintf("You do not have permission to delete %s", config.Settings.PluralCollectibleName))
	}
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	var ball *models.Ball
	if opt, ok := optionMap["countryball"]; ok {
		found, err := ballService.FindBall(db, opt.StringValue())
		if errors.Is(err, ballService.ErrBallNotFound) {
			return common.FollowupEphemeral(s, i, fmt.Sprintf("That %s could not be found.", config.Settings.CollectibleName))
		}
		if err != nil {
			return err
		}
		ball = found
	}
	var user *discordgo.User
	discordID := ""
	if opt, ok := optionMap["user"]; ok {
		user = common.OptionUser(s, i, opt)
		discordID = user.ID
	}

	card, err := ballService.GetSpecialByName(db, tier.SpecialName)
	if err != nil {
		return err
	}
	var ballID *uint
	if ball != nil {
		ballID = &ball.ID
	}
	cards, err := ballService.ListSpecialInstances(db, card.ID, ballID, discordID)
	if err != nil {
		return err
	}

	var fields []common.PageField
	var unmet []models.BallInstance
	for _, instance := range cards {
		held, err := countTowards(db, tier, instance.PlayerID, instance.BallID)
		if err != nil {
			return err
		}
		field, met := cardStatus(tier, instance, held)
		if !met {
			unmet = append(unmet, instance)
		}
		if !met || option == "ALL" {
			fields = append(fields, field)
		}
	}

	if len(fields) == 0 {
		return common.FollowupEphemeral(s, i, emptyCheckMessage(tier, option, ball, user))
	}

	if option == "DELETE" {
		return askDeleteConfirmation(s, i, tier, unmet)
	}

	paginator := &common.Paginator{
		Description: fmt.Sprintf("__**%s %s Card Check**__", config.Settings.BotName, tier.Title()),
		Color:       cardColor,
		Fields:      fields,
	}
	return common.SendPages(s, i, paginator, true)
}

func askDeleteConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, tier Tier, unmet []models.BallInstance) error {
	shiny := ""
	if tier.ShinyOnly {
		shiny = " shiny"
	}

	err := common.Followup(s, i, &discordgo.WebhookParams{
		Content: fmt.Sprintf("The following %s cards will be deleted for no longer having enough%s %s each to maintain them:",
			tier.Name, shiny, config.Settings.PluralCollectibleName),
		Files: []*discordgo.File{{
			Name:        "unmetccs.txt",
			ContentType: "text/plain",
			Reader:      strings.NewReader(unmetListing(unmet)),
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(unmet))
	for _, instance := range unmet {
		ids = append(ids, instance.ID)
	}
	id := uuid.NewString()
	pendingDeletions.Put(id, pendingDeletion{
		UserID:      common.InteractionUser(i).ID,
		Tier:        tier,
		InstanceIDs: ids,
	})

	return common.Followup(s, i, &discordgo.WebhookParams{
		Content:    fmt.Sprintf("Are you sure you want to delete %d %s card(s)?\nThis cannot be undone.", len(ids), tier.Name),
		Components: confirmButtons(id, false),
		Flags:      discordgo.MessageFlagsEphemeral,
	})
}

func confirmButtons(id string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.SuccessButton,
					CustomID: ConfirmPrefix + id,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: CancelPrefix + id,
					Disabled: disabled,
				},
			},
		},
	}
}

// HandleConfirmButton deletes the unmet cards once the admin who asked confirms.
func HandleConfirmButton(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, customID string) error {
	id := strings.TrimPrefix(customID, ConfirmPrefix)
	pending, ok := pendingDeletions.Get(id)
	if !ok {
		return common.RespondEphemeral(s, i, "This request has expired, please run the command again.")
	}
	user := common.InteractionUser(i)
	if pending.UserID != user.ID {
		return common.RespondEphemeral(s, i, "Only the user who ran the command can confirm it.")
	}
	if _, ok := pendingDeletions.Take(id); !ok {
		return common.RespondEphemeral(s, i, "This request has already been handled.")
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Confirmed, deleting...",
			Components: confirmButtons(id, true),
		},
	})
	if err != nil {
		return err
	}

	deleted, err := ballService.DeleteInstances(db, pending.InstanceIDs)
	if err != nil {
		return err
	}

	tier := pending.Tier
	name := common.Plural(int(deleted), config.Settings.CollectibleName, config.Settings.PluralCollectibleName)
	shiny := ""
	if tier.ShinyOnly {
		shiny = " shiny"
	}
	common.LogAction(s, fmt.Sprintf("%s has deleted %d %s card %s for no longer having enough%s %s each to maintain them.",
		common.GetUsernameFromUser(user), deleted, tier.Name, name, shiny, config.Settings.PluralCollectibleName))

	return common.FollowupEphemeral(s, i, fmt.Sprintf("%d %s card %s has been deleted successfully.", deleted, tier.Name, name))
}

func HandleCancelButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) error {
	id := strings.TrimPrefix(customID, CancelPrefix)
	pending, ok := pendingDeletions.Get(id)
	if ok && pending.UserID != common.InteractionUser(i).ID {
		return common.RespondEphemeral(s, i, "Only the user who ran the command can cancel it.")
	}
	pendingDeletions.Delete(id)

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Request cancelled.",
			Components: confirmButtons(id, true),
		},
	})
}
