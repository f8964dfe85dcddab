package spawnService

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/ballService"
	"ballsDexBot/services/common"
)

const guessInputID = "guess"

var guessReplacer = strings.NewReplacer("’", "'", "‘", "'", "“", "\"", "”", "\"")

// normaliseGuess folds case and smart quotes so mobile keyboards still match.
func normaliseGuess(raw string) string {
	return guessReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

func matchesBall(ball models.Ball, guess string) bool {
	guess = normaliseGuess(guess)
	for _, answer := range ball.CatchAnswers() {
		if normaliseGuess(answer) == guess {
			return true
		}
	}
	return false
}

type CatchResult struct {
	Instance models.BallInstance
	IsNew    bool
}

// CatchBall gives the spawned ball to user with freshly rolled bonuses and special.
func CatchBall(db *gorm.DB, spawn Spawn, user *discordgo.User, r *rand.Rand, now time.Time) (*CatchResult, error) {
	player, err := ballService.GetOrCreatePlayer(db, user)
	if err != nil {
		return nil, err
	}

	specials, err := ballService.ActiveSpecials(db, now)
	if err != nil {
		return nil, err
	}

	owned, err := ballService.HasBall(db, player.ID, spawn.Ball.ID)
	if err != nil {
		return nil, err
	}

	instance := models.BallInstance{
		BallID:      spawn.Ball.ID,
		Ball:        spawn.Ball,
		PlayerID:    player.ID,
		AttackBonus: RollBonus(config.Settings.MaxAttackBonus, r),
		HealthBonus: RollBonus(config.Settings.MaxHealthBonus, r),
		SpawnedTime: &spawn.SpawnedAt,
	}
	if spawn.GuildID != "" {
		guildID := spawn.GuildID
		instance.ServerID = &guildID
	}
	if special := PickSpecial(specials, r); special != nil {
		instance.SpecialID = &special.ID
		instance.Special = special
	}

	if err := ballService.CreateInstance(db, &instance); err != nil {
		return nil, err
	}
	return &CatchResult{Instance: instance, IsNew: !owned}, nil
}

func catchMessage(userID string, result *CatchResult) string {
	inst := result.Instance
	var b strings.Builder
	fmt.Fprintf(&b, "<@%s>, **%s** has happily joined your collection! `(#%X, %+d%%/%+d%%)`\n\n",
		userID, inst.Ball.Country, inst.ID, inst.AttackBonus, inst.HealthBonus)
	if inst.Special != nil && inst.Special.CatchPhrase != nil && *inst.Special.CatchPhrase != "" {
		fmt.Fprintf(&b, "*%s*\n", *inst.Special.CatchPhrase)
	}
	if result.IsNew {
		fmt.Fprintf(&b, "This is a **new %s** that has been added to your completion!", config.Settings.CollectibleName)
	}
	return strings.TrimRight(b.String(), "\n")
}

func tooSlowMessage(userID string) string {
	return fmt.Sprintf("<@%s> was too slow, maybe next time -w-!", userID)
}

// HandleCatchButton opens the guess modal while the spawn is still catchable.
func (h *Handler) HandleCatchButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	id := strings.TrimPrefix(customID, CatchButtonPrefix)
	user := common.InteractionUser(i)

	if _, ok := h.Spawns.Get(id); !ok {
		if err := common.RespondEphemeral(s, i, tooSlowMessage(user.ID)); err != nil {
			log.Error().Err(err).Msg("error responding to late catch")
		}
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: CatchModalPrefix + id,
			Title:    fmt.Sprintf("Catch this %s!", config.Settings.CollectibleName),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    guessInputID,
							Label:       fmt.Sprintf("Name of this %s", config.Settings.CollectibleName),
							Style:       discordgo.TextInputShort,
							Placeholder: "Your guess",
							Required:    true,
							MaxLength:   100,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("spawn_id", id).Msg("error opening catch modal")
	}
}

func modalGuess(data discordgo.ModalSubmitInteractionData) string {
	for _, component := range data.Components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == guessInputID {
				return input.Value
			}
		}
	}
	return ""
}

// HandleCatchModal checks a submitted guess and hands the ball to the first correct guesser.
func (h *Handler) HandleCatchModal(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	data := i.ModalSubmitData()
	id := strings.TrimPrefix(data.CustomID, CatchModalPrefix)
	user := common.InteractionUser(i)
	guess := modalGuess(data)

	if err := common.Defer(s, i, false); err != nil {
		log.Error().Err(err).Msg("error deferring catch")
		return
	}

	spawn, ok := h.Spawns.Get(id)
	if !ok {
		_ = common.Followup(s, i, &discordgo.WebhookParams{Content: tooSlowMessage(user.ID)})
		return
	}

	if !matchesBall(spawn.Ball, guess) {
		_ = common.Followup(s, i, &discordgo.WebhookParams{
			Content:         fmt.Sprintf("Oops, <@%s>! It was not ||%s||. Try again :3", user.ID, guess),
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{user.ID}},
		})
		return
	}

	spawn, err := h.Spawns.TryCatch(id)
	if errors.Is(err, ErrAlreadyCaught) || errors.Is(err, ErrSpawnNotFound) {
		_ = common.Followup(s, i, &discordgo.WebhookParams{Content: tooSlowMessage(user.ID)})
		return
	}

	result, err := CatchBall(db, spawn, user, childRand(), time.Now())
	if err != nil {
		h.Spawns.Release(spawn.ID)
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Followup(s, i, &discordgo.WebhookParams{
		Content:         catchMessage(user.ID, result),
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{user.ID}},
	})

	components := catchButton(spawn.ID, true)
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         spawn.MessageID,
		Channel:    spawn.ChannelID,
		Components: &components,
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", spawn.MessageID).Msg("error disabling caught spawn")
	}

	log.Info().
		Str("user_id", user.ID).
		Str("ball", spawn.Ball.Country).
		Uint("instance_id", result.Instance.ID).
		Str("special", result.Instance.SpecialName()).
		Msg("ball caught")
}
