package scheduler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/scheduler/scheduler_jobs"
	"ballsDexBot/services/spawnService"
)

const (
	expireSpec = "*/15 * * * * *"
	sweepSpec  = "0 */5 * * * *"
)

func SetupCron(s *discordgo.Session, db *gorm.DB, spawns *spawnService.Handler) *cron.Cron {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc(config.Settings.SpawnCron, func() {
		err := scheduler_jobs.SpawnBalls(s, db, spawns)
		if err != nil {
			log.Error().Err(err).Msg("spawn job failed")
		}
	})
	if err != nil {
		recordCronError(db, fmt.Errorf("invalid SPAWN_CRON %q: %v", config.Settings.SpawnCron, err))
	}

	_, err = cronService.AddFunc(expireSpec, func() {
		// Every 15 seconds
		err := scheduler_jobs.ExpireSpawns(s, spawns)
		if err != nil {
			log.Error().Err(err).Msg("expire job failed")
		}
	})
	if err != nil {
		recordCronError(db, err)
	}

	_, err = cronService.AddFunc(sweepSpec, func() {
		// Every 5 minutes
		scheduler_jobs.SweepState()
	})
	if err != nil {
		recordCronError(db, err)
	}

	cronService.Start()
	log.Info().Int("jobs", len(cronService.Entries())).Msg("scheduler started")
	return cronService
}

func recordCronError(db *gorm.DB, err error) {
	log.Error().Err(err).Msg("error scheduling job")
	errLog := models.ErrorLog{
		GuildID: "CRON ERR",
		Message: fmt.Sprintf("%v", err),
	}
	db.Create(&errLog)
}
