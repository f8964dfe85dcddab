package battleService

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"ballsDexBot/config"
	"ballsDexBot/services/battleService/battle"
	"ballsDexBot/services/common"
)

const (
	ReadyButtonID  = "battle_ready"
	CancelButtonID = "battle_cancel"

	colorBlurple = 0x5865F2
	colorGreen   = 0x2ECC71
	colorRed     = 0xE74C3C
)

func planTitle() string {
	return fmt.Sprintf("%s Battle Plan", common.Title(config.Settings.PluralCollectibleName))
}

func maxAmountLabel(maxEntries int) string {
	if maxEntries == 0 {
		return "Unlimited"
	}
	return strconv.Itoa(maxEntries)
}

func deckFields(session battle.Session, prefixA string, prefixB string) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{
			Name:   strings.TrimSpace(fmt.Sprintf("%s %s's deck:", prefixA, session.NameA)),
			Value:  battle.RenderDeckSummary(session.DeckA),
			Inline: true,
		},
		{
			Name:   strings.TrimSpace(fmt.Sprintf("%s %s's deck:", prefixB, session.NameB)),
			Value:  battle.RenderDeckSummary(session.DeckB),
			Inline: true,
		},
	}
}

func readyMark(ready bool) string {
	if ready {
		return ":white_check_mark:"
	}
	return ""
}

// PlanEmbed renders the proposal while both sides are building their decks.
func PlanEmbed(session battle.Session) *discordgo.MessageEmbed {
	plural := config.Settings.PluralCollectibleName
	return &discordgo.MessageEmbed{
		Title: planTitle(),
		Description: fmt.Sprintf(
			"Add or remove %s you want to propose to the other player using the /battle add and /battle remove commands. "+
				"Once you've finished, click the tick button to start the battle.\nMax amount: %s",
			plural, maxAmountLabel(session.MaxEntries)),
		Color:  colorBlurple,
		Fields: deckFields(session, readyMark(session.ReadyA), readyMark(session.ReadyB)),
	}
}

func winnerLabel(session battle.Session, outcome *battle.Outcome) string {
	if outcome.Winner == battle.Draw {
		return fmt.Sprintf("Draw - Turn: %d", outcome.Turns)
	}
	return fmt.Sprintf("%s - Turn: %d", session.Name(outcome.Winner), outcome.Turns)
}

func ResultEmbed(session battle.Session, outcome *battle.Outcome) *discordgo.MessageEmbed {
	fields := deckFields(session, "", "")
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Winner:",
		Value:  winnerLabel(session, outcome),
		Inline: false,
	})
	return &discordgo.MessageEmbed{
		Title:       planTitle(),
		Description: fmt.Sprintf("Battle between <@%s> and <@%s>", session.ParticipantA, session.ParticipantB),
		Color:       colorGreen,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Battle log is attached."},
	}
}

func CancelledEmbed(session battle.Session) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       planTitle(),
		Description: "The battle has been cancelled.",
		Color:       colorRed,
		Fields:      deckFields(session, ":no_entry_sign:", ":no_entry_sign:"),
	}
}

// BattleLog is the attachment body sent with the result.
func BattleLog(outcome *battle.Outcome) *discordgo.File {
	return &discordgo.File{
		Name:        "battle-log.txt",
		ContentType: "text/plain",
		Reader:      strings.NewReader(strings.Join(outcome.TurnLog, "\n")),
	}
}

func BattleButtons(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Ready",
					Style:    discordgo.SuccessButton,
					CustomID: ReadyButtonID,
					Disabled: disabled,
					Emoji: &discordgo.ComponentEmoji{
						Name: "✔",
					},
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: CancelButtonID,
					Disabled: disabled,
					Emoji: &discordgo.ComponentEmoji{
						Name: "✖",
					},
				},
			},
		},
	}
}
