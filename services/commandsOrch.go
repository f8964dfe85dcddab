package services

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/services/battleService"
	"ballsDexBot/services/collectorService"
	"ballsDexBot/services/guildService"
	"ballsDexBot/services/rarityService"
)

func HandleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, battles *battleService.Handler) {
	switch i.ApplicationCommandData().Name {
	case "battle":
		battles.HandleBattleCommand(s, i, db)
	case "collector":
		collectorService.HandleCollectorCommand(s, i, db)
	case "rarity_list":
		rarityService.ShowRarityList(s, i, db)
	case "spawn-channel":
		guildService.SetSpawnChannel(s, i, db)
	case "spawn-disable":
		guildService.DisableSpawnChannel(s, i, db)
	}
}

func countryballOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        "countryball",
		Description: description,
		Type:        discordgo.ApplicationCommandOptionString,
		Required:    required,
	}
}

func diamondOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        "diamond",
		Description: description,
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Required:    false,
	}
}

// Commands lists every slash command the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	collectible := config.Settings.CollectibleName
	plural := config.Settings.PluralCollectibleName
	minMax := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:        "battle",
			Description: fmt.Sprintf("Battle your %s against other players", plural),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "start",
					Description: "Begin a battle with the chosen user",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "opponent",
							Description: "The user you want to battle",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
						{
							Name:        "max_amount",
							Description: fmt.Sprintf("Maximum amount of %s allowed in each deck", plural),
							Type:        discordgo.ApplicationCommandOptionInteger,
							Required:    false,
							MinValue:    &minMax,
						},
					},
				},
				{
					Name:        "add",
					Description: fmt.Sprintf("Add a %s to your deck", collectible),
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						countryballOption(fmt.Sprintf("ID of the %s to add", collectible), true),
					},
				},
				{
					Name:        "remove",
					Description: fmt.Sprintf("Remove a %s from your deck", collectible),
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						countryballOption(fmt.Sprintf("ID of the %s to remove", collectible), true),
					},
				},
				{
					Name:        "cancel",
					Description: "Cancel your current battle",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "bulk",
					Description: fmt.Sprintf("Add or remove many %s at once", plural),
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "add",
							Description: fmt.Sprintf("Add all your %s, or every copy of one", plural),
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								countryballOption(fmt.Sprintf("Only add this %s", collectible), false),
							},
						},
						{
							Name:        "remove",
							Description: fmt.Sprintf("Remove all your %s, or every copy of one", plural),
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								countryballOption(fmt.Sprintf("Only remove this %s", collectible), false),
							},
						},
					},
				},
				{
					Name:        "admin",
					Description: "🛡 Battle administration - ADMIN ONLY",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "clear",
							Description: "🛡 Cancel every ongoing battle - ADMIN ONLY",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
					},
				},
			},
		},
		{
			Name:        "collector",
			Description: "Collector cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "card",
					Description: "Create a collector card",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						countryballOption(fmt.Sprintf("The %s you want a card for", collectible), true),
						diamondOption("Create a diamond card instead"),
					},
				},
				{
					Name:        "list",
					Description: "Show the requirement of every collector card",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						diamondOption("Show diamond requirements instead"),
					},
				},
				{
					Name:        "admin",
					Description: "🛡 Collector administration - ADMIN ONLY",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "check",
							Description: "🛡 Check who still meets their card requirement - ADMIN ONLY",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Name:        "option",
									Description: "What to show",
									Type:        discordgo.ApplicationCommandOptionString,
									Required:    false,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "All", Value: "ALL"},
										{Name: "Unmet", Value: "UNMET"},
										{Name: "Delete", Value: "DELETE"},
									},
								},
								countryballOption(fmt.Sprintf("Only check this %s", collectible), false),
								{
									Name:        "user",
									Description: "Only check this user",
									Type:        discordgo.ApplicationCommandOptionUser,
									Required:    false,
								},
								diamondOption("Check diamond cards instead"),
							},
						},
					},
				},
			},
		},
		{
			Name:        "rarity_list",
			Description: fmt.Sprintf("Show the rarity list of %s", config.Settings.BotName),
			Options: []*discordgo.ApplicationCommandOption{
				countryballOption(fmt.Sprintf("Only show this %s", collectible), false),
			},
		},
		{
			Name:        "spawn-channel",
			Description: fmt.Sprintf("🛡 Set the channel %s spawn in - ADMIN ONLY", plural),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:         "channel",
					Description:  "Channel to spawn in (defaults to this one)",
					Type:         discordgo.ApplicationCommandOptionChannel,
					Required:     false,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:        "spawn-disable",
			Description: fmt.Sprintf("🛡 Stop %s from spawning in this server - ADMIN ONLY", plural),
		},
	}
}

func RegisterCommands(s *discordgo.Session) error {
	commands := Commands()
	for _, cmd := range commands {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %s: %v", cmd.Name, err)
		}
	}

	log.Info().Int("count", len(commands)).Msg("commands registered")
	return nil
}
