package battleService

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/ballService"
	"ballsDexBot/services/battleService/battle"
	"ballsDexBot/services/common"
)

// Handler serves the /battle command and buttons against one registry.
type Handler struct {
	Battles *battle.Registry
}

func NewHandler(battles *battle.Registry) *Handler {
	return &Handler{Battles: battles}
}

func (h *Handler) HandleBattleCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	var err error
	sub := options[0]
	switch sub.Name {
	case "start":
		err = h.StartBattle(s, i, sub.Options)
	case "add":
		err = h.AddToDeck(s, i, db, sub.Options)
	case "remove":
		err = h.RemoveFromDeck(s, i, db, sub.Options)
	case "cancel":
		err = h.CancelBattle(s, i)
	case "bulk":
		if len(sub.Options) == 0 {
			return
		}
		switch sub.Options[0].Name {
		case "add":
			err = h.BulkAdd(s, i, db, sub.Options[0].Options)
		case "remove":
			err = h.BulkRemove(s, i, db, sub.Options[0].Options)
		}
	case "admin":
		if len(sub.Options) == 0 {
			return
		}
		if sub.Options[0].Name == "clear" {
			err = h.ClearBattles(s, i)
		}
	}

	if err != nil {
		common.SendError(s, i, err, db)
	}
}

// battleErrorMessage maps registry errors a player can cause to the reply they see.
func battleErrorMessage(err error) (string, bool) {
	plural := config.Settings.PluralCollectibleName
	switch {
	case errors.Is(err, battle.ErrNotInSession):
		return "You aren't a part of a battle!", true
	case errors.Is(err, battle.ErrAlreadyReady):
		return fmt.Sprintf("You cannot change your %s as you are already ready.", plural), true
	case errors.Is(err, battle.ErrCapacity):
		return fmt.Sprintf("You cannot add anymore %s as you have already reached the max amount limit!", plural), true
	}
	return "", false
}

func instanceErrorMessage(err error) (string, bool) {
	if errors.Is(err, ballService.ErrInvalidInstanceID) || errors.Is(err, ballService.ErrInstanceNotFound) {
		return fmt.Sprintf("The %s could not be found.", config.Settings.CollectibleName), true
	}
	if errors.Is(err, ballService.ErrBallNotFound) {
		return fmt.Sprintf("That %s could not be found.", config.Settings.CollectibleName), true
	}
	return "", false
}

// bulkMessage summarises a bulk change, naming the ball when one was selected.
func bulkMessage(verb string, count int, ball *models.Ball) string {
	if ball != nil {
		return fmt.Sprintf("%s %d %s%s!", verb, count, ball.Country, common.Plural(count, "", "s"))
	}
	name := common.Plural(count, config.Settings.CollectibleName, config.Settings.PluralCollectibleName)
	return fmt.Sprintf("%s %d %s!", verb, count, name)
}

// isOriginMessage reports whether a button press came from the battle's own
// proposal, so buttons left on older proposals are refused.
func isOriginMessage(session battle.Session, messageID string) bool {
	if session.Origin.MessageID == "" || messageID == "" {
		return true
	}
	return session.Origin.MessageID == messageID
}

func interactionMessageID(i *discordgo.InteractionCreate) string {
	if i.Message == nil {
		return ""
	}
	return i.Message.ID
}

// guildRefusal returns the reply for a caller without a battle in guildID, or "".
func guildRefusal(session battle.Session, found bool, guildID string) string {
	if !found {
		return "You aren't a part of a battle!"
	}
	if session.Origin.GuildID != guildID {
		return "You must be in the same server as your battle to use commands."
	}
	return ""
}

func bulkAddRefusal(session battle.Session) string {
	if session.MaxEntries != 0 {
		return "Bulk adding is not available when there is a max amount limit!"
	}
	return ""
}

func deckRefusal(instance models.BallInstance) string {
	if !instance.Ball.Tradeable {
		return fmt.Sprintf("You cannot use this %s.", config.Settings.CollectibleName)
	}
	return ""
}

// recordOrigin stores where the battle was proposed. The battle can be
// cancelled before the proposal is sent, so a failure is only logged.
func (h *Handler) recordOrigin(userID string, origin battle.Origin) {
	if err := h.Battles.SetOrigin(userID, origin); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("message_id", origin.MessageID).Msg("error recording battle origin")
	}
}

// findInGuild returns the caller's battle, replying and returning false when
// the caller has none or is using commands from another server.
func (h *Handler) findInGuild(s *discordgo.Session, i *discordgo.InteractionCreate, deferred bool) (battle.Session, bool, error) {
	user := common.InteractionUser(i)
	reply := func(content string) error {
		if deferred {
			return common.FollowupEphemeral(s, i, content)
		}
		return common.RespondEphemeral(s, i, content)
	}

	session, found := h.Battles.Find(user.ID)
	if msg := guildRefusal(session, found, i.GuildID); msg != "" {
		return session, false, reply(msg)
	}
	return session, true, nil
}

// refreshPlan re-renders the proposal message after a deck or ready change.
func (h *Handler) refreshPlan(s *discordgo.Session, participant string) {
	session, ok := h.Battles.Find(participant)
	if !ok || session.Origin.MessageID == "" {
		return
	}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      session.Origin.MessageID,
		Channel: session.Origin.ChannelID,
		Embeds:  &[]*discordgo.MessageEmbed{PlanEmbed(session)},
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", session.Origin.MessageID).Msg("error refreshing battle plan")
	}
}

func (h *Handler) StartBattle(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	user := common.InteractionUser(i)
	optionMap := common.OptionMap(options)

	opponentOpt, ok := optionMap["opponent"]
	if !ok {
		return fmt.Errorf("missing opponent option")
	}
	opponent := common.OptionUser(s, i, opponentOpt)

	if opponent.Bot {
		return common.RespondEphemeral(s, i, "You can't battle against bots.")
	}
	if opponent.ID == user.ID {
		return common.RespondEphemeral(s, i, "You can't battle against yourself.")
	}
	if _, ok := h.Battles.Find(opponent.ID); ok {
		return common.RespondEphemeral(s, i, "That user is already in a battle. They may use `/battle cancel` to cancel it.")
	}

	maxAmount := 0
	if opt, ok := optionMap["max_amount"]; ok {
		maxAmount = int(opt.IntValue())
	}

	session, err := h.Battles.Create(user.ID, common.GetUsernameFromUser(user), opponent.ID, common.GetUsernameFromUser(opponent), maxAmount)
	if errors.Is(err, battle.ErrDuplicateSession) {
		return common.RespondEphemeral(s, i, "You are already in a battle. You may use `/battle cancel` to cancel it.")
	}
	if err != nil {
		return err
	}
	h.recordOrigin(user.ID, battle.Origin{GuildID: i.GuildID, ChannelID: i.ChannelID})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("Hey, <@%s>, %s is proposing a battle with you!", opponent.ID, session.NameA),
			Embeds:     []*discordgo.MessageEmbed{PlanEmbed(session)},
			Components: BattleButtons(false),
		},
	})
	if err != nil {
		if _, cancelErr := h.Battles.Cancel(user.ID); cancelErr != nil {
			log.Warn().Err(cancelErr).Str("user_id", user.ID).Msg("error dropping unsent battle")
		}
		return err
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("error fetching battle proposal message")
		return nil
	}
	h.recordOrigin(user.ID, battle.Origin{GuildID: i.GuildID, ChannelID: msg.ChannelID, MessageID: msg.ID})

	log.Info().Str("author", user.ID).Str("opponent", opponent.ID).Int("max_amount", session.MaxEntries).Msg("battle proposed")
	return nil
}

func (h *Handler) AddToDeck(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	user := common.InteractionUser(i)
	session, ok, err := h.findInGuild(s, i, false)
	if !ok {
		return err
	}

	opt, ok := common.OptionMap(options)["countryball"]
	if !ok {
		return fmt.Errorf("missing countryball option")
	}

	player, err := ballService.GetOrCreatePlayer(db, user)
	if err != nil {
		return err
	}
	instance, err := ballService.GetPlayerInstance(db, player.ID, opt.StringValue())
	if msg, ok := instanceErrorMessage(err); ok {
		return common.RespondEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	if msg := deckRefusal(*instance); msg != "" {
		return common.RespondEphemeral(s, i, msg)
	}

	entry := BuildDeckEntry(*instance, session.Name(session.SideOf(user.ID)))
	present, err := h.Battles.AddEntry(user.ID, entry)
	if msg, ok := battleErrorMessage(err); ok {
		return common.RespondEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}
	if present {
		return common.RespondEphemeral(s, i, fmt.Sprintf("You cannot add the same %s twice!", config.Settings.CollectibleName))
	}

	err = common.RespondEphemeral(s, i, fmt.Sprintf("Added `%s (%+d%%/%+d%%)`!", EntryName(*instance), instance.AttackBonus, instance.HealthBonus))
	h.refreshPlan(s, user.ID)
	return err
}

func (h *Handler) RemoveFromDeck(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	user := common.InteractionUser(i)
	session, ok, err := h.findInGuild(s, i, false)
	if !ok {
		return err
	}

	opt, ok := common.OptionMap(options)["countryball"]
	if !ok {
		return fmt.Errorf("missing countryball option")
	}

	player, err := ballService.GetOrCreatePlayer(db, user)
	if err != nil {
		return err
	}
	instance, err := ballService.GetPlayerInstance(db, player.ID, opt.StringValue())
	if msg, ok := instanceErrorMessage(err); ok {
		return common.RespondEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	entry := BuildDeckEntry(*instance, session.Name(session.SideOf(user.ID)))
	notFound, err := h.Battles.RemoveEntry(user.ID, entry)
	if msg, ok := battleErrorMessage(err); ok {
		return common.RespondEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}
	if notFound {
		return common.RespondEphemeral(s, i, fmt.Sprintf("You cannot remove a %s that is not in your deck!", config.Settings.CollectibleName))
	}

	err = common.RespondEphemeral(s, i, fmt.Sprintf("Removed `%s (%+d%%/%+d%%)`!", EntryName(*instance), instance.AttackBonus, instance.HealthBonus))
	h.refreshPlan(s, user.ID)
	return err
}

func (h *Handler) BulkAdd(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	user := common.InteractionUser(i)
	session, ok, err := h.findInGuild(s, i, true)
	if !ok {
		return err
	}
	if msg := bulkAddRefusal(session); msg != "" {
		return common.FollowupEphemeral(s, i, msg)
	}

	player, err := ballService.GetOrCreatePlayer(db, user)
	if err != nil {
		return err
	}
	ball, err := ballService.BallOption(db, options, "countryball")
	if msg, ok := instanceErrorMessage(err); ok {
		return common.FollowupEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	var ballID *uint
	if ball != nil {
		ballID = &ball.ID
	}
	instances, err := ballService.ListPlayerInstances(db, player.ID, ballID, true)
	if err != nil {
		return err
	}

	added, err := h.Battles.AddEntries(user.ID, buildDeckEntries(instances, session.Name(session.SideOf(user.ID))))
	if msg, ok := battleErrorMessage(err); ok {
		return common.FollowupEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	h.refreshPlan(s, user.ID)
	return common.FollowupEphemeral(s, i, bulkMessage("Added", added, ball))
}

func (h *Handler) BulkRemove(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	user := common.InteractionUser(i)
	session, ok, err := h.findInGuild(s, i, true)
	if !ok {
		return err
	}

	player, err := ballService.GetOrCreatePlayer(db, user)
	if err != nil {
		return err
	}
	ball, err := ballService.BallOption(db, options, "countryball")
	if msg, ok := instanceErrorMessage(err); ok {
		return common.FollowupEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	var ballID *uint
	if ball != nil {
		ballID = &ball.ID
	}
	instances, err := ballService.ListPlayerInstances(db, player.ID, ballID, false)
	if err != nil {
		return err
	}

	removed, err := h.Battles.RemoveEntries(user.ID, buildDeckEntries(instances, session.Name(session.SideOf(user.ID))))
	if msg, ok := battleErrorMessage(err); ok {
		return common.FollowupEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	h.refreshPlan(s, user.ID)
	return common.FollowupEphemeral(s, i, bulkMessage("Removed", removed, ball))
}

func (h *Handler) CancelBattle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	user := common.InteractionUser(i)
	session, err := h.Battles.Cancel(user.ID)
	if msg, ok := battleErrorMessage(err); ok {
		return common.FollowupEphemeral(s, i, msg)
	}
	if err != nil {
		return err
	}

	if session.Origin.MessageID != "" {
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         session.Origin.MessageID,
			Channel:    session.Origin.ChannelID,
			Embeds:     &[]*discordgo.MessageEmbed{CancelledEmbed(session)},
			Components: &[]discordgo.MessageComponent{BattleButtons(true)[0]},
		})
		if err != nil {
			log.Warn().Err(err).Str("message_id", session.Origin.MessageID).Msg("error editing cancelled battle")
		}
	}

	return common.FollowupEphemeral(s, i, "Your current battle has been frozen and cancelled.")
}

func (h *Handler) ClearBattles(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !common.IsStaff(s, i) {
		return common.RespondEphemeral(s, i, "You are not authorized to use this command.")
	}
	if err := common.Defer(s, i, true); err != nil {
		return err
	}

	cleared := h.Battles.ClearAll()
	user := common.InteractionUser(i)
	common.LogAction(s, fmt.Sprintf("%s cleared %d active %s", common.GetUsernameFromUser(user), cleared, common.Plural(cleared, "battle", "battles")))

	return common.FollowupEphemeral(s, i, "All battles have been reset.")
}

func (h *Handler) HandleReadyButton(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) error {
	user := common.InteractionUser(i)
	current, ok := h.Battles.Find(user.ID)
	if !ok || !isOriginMessage(current, interactionMessageID(i)) {
		return common.RespondEphemeral(s, i, "You aren't a part of this battle.")
	}

	session, outcome, err := h.Battles.SetReady(user.ID)
	switch {
	case errors.Is(err, battle.ErrEmptyDeck):
		err = common.Respond(s, i, fmt.Sprintf("Both players must add %s!", config.Settings.PluralCollectibleName))
		h.refreshPlan(s, user.ID)
		return err
	case errors.Is(err, battle.ErrNotInSession):
		return common.RespondEphemeral(s, i, "You aren't a part of this battle.")
	case err != nil:
		return err
	case outcome == nil:
		err = common.RespondEphemeral(s, i, "Done! Waiting for the other player to press 'Ready'.")
		h.refreshPlan(s, user.ID)
		return err
	}

	log.Info().
		Str("author", session.ParticipantA).
		Str("opponent", session.ParticipantB).
		Str("winner", session.Participant(outcome.Winner)).
		Int("turns", outcome.Turns).
		Msg("battle resolved")

	content := fmt.Sprintf("<@%s> vs <@%s>", session.ParticipantA, session.ParticipantB)
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{ResultEmbed(session, outcome)},
			Components: BattleButtons(true),
			Files:      []*discordgo.File{BattleLog(outcome)},
		},
	})
}

func (h *Handler) HandleCancelButton(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) error {
	user := common.InteractionUser(i)
	current, ok := h.Battles.Find(user.ID)
	if !ok || !isOriginMessage(current, interactionMessageID(i)) {
		return common.RespondEphemeral(s, i, "You aren't a part of this battle!")
	}

	session, err := h.Battles.Cancel(user.ID)
	if errors.Is(err, battle.ErrNotInSession) {
		return common.RespondEphemeral(s, i, "You aren't a part of this battle!")
	}
	if err != nil {
		return err
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{CancelledEmbed(session)},
			Components: BattleButtons(true),
		},
	})
}
