package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/database"
	"ballsDexBot/scheduler"
	"ballsDexBot/services"
	"ballsDexBot/services/battleService"
	"ballsDexBot/services/battleService/battle"
	"ballsDexBot/services/common"
	"ballsDexBot/services/interactionService"
	"ballsDexBot/services/rarityService"
	"ballsDexBot/services/spawnService"
)

var (
	db      *gorm.DB
	battles *battleService.Handler
	spawns  *spawnService.Handler
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}
	config.Settings = cfg
	setupLogger(cfg)

	db, err = database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}

	err = database.Migrate(db)
	if err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	battles = battleService.NewHandler(battle.NewRegistry())
	spawns = spawnService.NewHandler(spawnService.NewRegistry(spawnService.SpawnTimeout))

	rarityService.Cooldown, err = common.NewCooldown(cfg.RedisURL, "ballsdex:cooldown:", rarityService.CooldownWindow)
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up cooldowns")
	}
}

func main() {
	dg, err := discordgo.New("Bot " + config.Settings.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating Discord session")
	}

	dg.AddHandler(interactionCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("connected to Discord")
		err := s.UpdateGameStatus(0, "Catching "+config.Settings.PluralCollectibleName)
		if err != nil {
			log.Warn().Err(err).Msg("error updating status")
		}
	})

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	err = dg.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("error opening Discord session")
	}
	defer func(dg *discordgo.Session) {
		err := dg.Close()
		if err != nil {
			log.Error().Err(err).Msg("error closing Discord session")
		}
	}(dg)

	err = services.RegisterCommands(dg)
	if err != nil {
		log.Fatal().Err(err).Msg("error registering commands")
	}

	cronService := scheduler.SetupCron(dg, db, spawns)
	defer cronService.Stop()

	log.Info().Msg("Bot is running. Press CTRL+C to exit.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")
}

func interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		services.HandleSlashCommand(s, i, db, battles)
	case discordgo.InteractionMessageComponent:
		interactionService.HandleComponentInteraction(s, i, db, battles, spawns)
	case discordgo.InteractionModalSubmit:
		interactionService.HandleModalSubmit(s, i, db, spawns)
	}
}
