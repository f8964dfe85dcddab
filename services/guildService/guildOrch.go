package guildService

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/common"
)

func GetGuildInfo(s *discordgo.Session, db *gorm.DB, guildID string) (*models.Guild, error) {
	var guild models.Guild
	guildResult := db.Where("guild_id = ?", guildID).Limit(1).Find(&guild)
	if guildResult.Error != nil {
		return nil, guildResult.Error
	}

	if guildResult.RowsAffected == 0 {
		guildInfo, err := s.Guild(guildID)
		if err != nil {
			return nil, err
		}
		newGuild := &models.Guild{GuildID: guildID, GuildName: guildInfo.Name}
		newGuildResult := db.Create(newGuild)
		if newGuildResult.Error != nil {
			return nil, newGuildResult.Error
		} else {
			guild = *newGuild
		}
	} else {
		checkGuild, err := s.Guild(guildID)
		if err != nil {
			common.SendError(s, nil, err, db)
		} else if guild.GuildName != checkGuild.Name {
			guild.GuildName = checkGuild.Name
			db.Save(&guild)
		}
	}

	return &guild, nil
}

// spawnChannel picks the channel option if given, otherwise the channel the command ran in.
func spawnChannel(i *discordgo.InteractionCreate) string {
	if opt, ok := common.OptionMap(i.ApplicationCommandData().Options)["channel"]; ok {
		if id, ok := opt.Value.(string); ok && id != "" {
			return id
		}
	}
	return i.ChannelID
}

// EnableSpawns stores the spawn channel and turns spawning on.
func EnableSpawns(db *gorm.DB, guild *models.Guild, channelID string) error {
	guild.SpawnChannelID = &channelID
	guild.SpawnEnabled = true
	if err := db.Save(guild).Error; err != nil {
		return fmt.Errorf("error saving spawn channel: %v", err)
	}
	return nil
}

func DisableSpawns(db *gorm.DB, guild *models.Guild) error {
	guild.SpawnEnabled = false
	if err := db.Save(guild).Error; err != nil {
		return fmt.Errorf("error disabling spawns: %v", err)
	}
	return nil
}

func SetSpawnChannel(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsAdmin(s, i) {
		err := common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	guild, err := GetGuildInfo(s, db, i.GuildID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	channelID := spawnChannel(i)
	if err := EnableSpawns(db, guild, channelID); err != nil {
		common.SendError(s, i, err, db)
		return
	}

	common.LogAction(s, fmt.Sprintf("%s set the spawn channel of %s to <#%s>", common.GetUsernameFromUser(common.InteractionUser(i)), guild.GuildName, channelID))

	err = common.RespondEphemeral(s, i, fmt.Sprintf("%s will now spawn in <#%s>.", common.Title(config.Settings.PluralCollectibleName), channelID))
	if err != nil {
		common.SendError(s, i, err, db)
	}
}

func DisableSpawnChannel(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsAdmin(s, i) {
		err := common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	guild, err := GetGuildInfo(s, db, i.GuildID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	if !guild.SpawnEnabled {
		err = common.RespondEphemeral(s, i, fmt.Sprintf("%s are already disabled in this server.", common.Title(config.Settings.PluralCollectibleName)))
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if err := DisableSpawns(db, guild); err != nil {
		common.SendError(s, i, err, db)
		return
	}

	common.LogAction(s, fmt.Sprintf("%s disabled spawns in %s", common.GetUsernameFromUser(common.InteractionUser(i)), guild.GuildName))

	err = common.RespondEphemeral(s, i, fmt.Sprintf("%s will no longer spawn in this server.", common.Title(config.Settings.PluralCollectibleName)))
	if err != nil {
		common.SendError(s, i, err, db)
	}
}
