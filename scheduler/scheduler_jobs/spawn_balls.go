package scheduler_jobs

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/services/spawnService"
)

func SpawnBalls(s *discordgo.Session, db *gorm.DB, spawns *spawnService.Handler) error {
	spawned, err := spawns.SpawnAll(s, db)
	if err != nil {
		return err
	}
	log.Debug().Int("spawned", spawned).Msg("spawn round finished")
	return nil
}

func ExpireSpawns(s *discordgo.Session, spawns *spawnService.Handler) error {
	if expired := spawns.ExpireSpawns(s); expired > 0 {
		log.Debug().Int("expired", expired).Msg("expired uncaught spawns")
	}
	return nil
}
