package rarityService

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/ballService"
	"ballsDexBot/services/common"
)

const (
	CooldownWindow = 10 * time.Second
	listColor      = 0x5865F2
)

// Cooldown limits /rarity_list to one use per user per window. main swaps in
// the Redis backed limiter when one is configured.
var Cooldown common.Cooldown = common.NewMemoryCooldown(CooldownWindow)

type RankedBall struct {
	Ball models.Ball
	Rank int
}

// Rank assigns competition ranks to balls already sorted by ascending rarity:
// equal rarities share a rank and the next distinct rarity takes its position.
func Rank(balls []models.Ball) []RankedBall {
	ranked := make([]RankedBall, 0, len(balls))
	for idx, ball := range balls {
		rank := idx + 1
		if idx > 0 && ball.Rarity == balls[idx-1].Rarity {
			rank = ranked[idx-1].Rank
		}
		ranked = append(ranked, RankedBall{Ball: ball, Rank: rank})
	}
	return ranked
}

func rarityLine(ball models.Ball, rank int) string {
	emoji := ball.Emoji()
	if emoji == "" {
		emoji = "N/A"
	}
	return fmt.Sprintf("%s Rarity: %d", emoji, rank)
}

func cooldownMessage(remaining time.Duration) string {
	seconds := int(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("This command is on cooldown. Please retry in %d %s.", seconds, common.Plural(seconds, "second", "seconds"))
}

func ShowRarityList(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	err := showRarityList(s, i, db)
	if err != nil {
		common.SendError(s, i, err, db)
	}
}

func showRarityList(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) error {
	user := common.InteractionUser(i)

	ok, remaining, err := Cooldown.Allow(context.Background(), "rarity_list:"+user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return common.RespondEphemeral(s, i, cooldownMessage(remaining))
	}

	balls, err := ballService.EnabledBalls(db)
	if err != nil {
		return err
	}
	if len(balls) == 0 {
		return common.RespondEphemeral(s, i, fmt.Sprintf("There are no collectibles registered in %s yet.", config.Settings.BotName))
	}

	ranked := Rank(balls)

	if opt, ok := common.OptionMap(i.ApplicationCommandData().Options)["countryball"]; ok {
		wanted, err := ballService.FindEnabledBall(db, opt.StringValue())
		if err != nil {
			return common.RespondEphemeral(s, i, fmt.Sprintf("That %s could not be found.", config.Settings.CollectibleName))
		}
		for _, entry := range ranked {
			if entry.Ball.ID == wanted.ID {
				return common.RespondEphemeral(s, i, fmt.Sprintf("**%s**\n%s", entry.Ball.Country, rarityLine(entry.Ball, entry.Rank)))
			}
		}
	}

	fields := make([]common.PageField, 0, len(ranked))
	for _, entry := range ranked {
		fields = append(fields, common.PageField{
			Name:  entry.Ball.Country,
			Value: rarityLine(entry.Ball, entry.Rank),
		})
	}

	paginator := &common.Paginator{
		Description: fmt.Sprintf("__**%s rarity**__", config.Settings.BotName),
		Color:       listColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    common.GetUsernameFromUser(user),
			IconURL: user.AvatarURL(""),
		},
		Fields: fields,
	}
	return common.SendPages(s, i, paginator, false)
}
