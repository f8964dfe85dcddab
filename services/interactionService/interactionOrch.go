package interactionService

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/services/battleService"
	"ballsDexBot/services/collectorService"
	"ballsDexBot/services/common"
	"ballsDexBot/services/spawnService"
)

func HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, battles *battleService.Handler, spawns *spawnService.Handler) {
	customID := i.MessageComponentData().CustomID

	if strings.HasPrefix(customID, common.PagesPrefix) {
		err := common.HandlePageButton(s, i, customID)
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if customID == battleService.ReadyButtonID {
		err := battles.HandleReadyButton(s, i, db)
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if customID == battleService.CancelButtonID {
		err := battles.HandleCancelButton(s, i, db)
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if strings.HasPrefix(customID, collectorService.ConfirmPrefix) {
		err := collectorService.HandleConfirmButton(s, i, db, customID)
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if strings.HasPrefix(customID, collectorService.CancelPrefix) {
		err := collectorService.HandleCancelButton(s, i, customID)
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	if strings.HasPrefix(customID, spawnService.CatchButtonPrefix) {
		spawns.HandleCatchButton(s, i, customID)
		return
	}

	log.Warn().Str("custom_id", customID).Msg("unhandled component interaction")
}

func HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, spawns *spawnService.Handler) {
	customID := i.ModalSubmitData().CustomID

	if strings.HasPrefix(customID, spawnService.CatchModalPrefix) {
		spawns.HandleCatchModal(s, i, db)
		return
	}

	log.Warn().Str("custom_id", customID).Msg("unhandled modal submit")
}
