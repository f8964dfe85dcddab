package spawnService

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"ballsDexBot/models"
	"ballsDexBot/services/ballService"
)

const (
	CatchButtonPrefix = "catch_"
	CatchModalPrefix  = "catch_modal_"
)

// Handler posts spawns and serves catches against one spawn registry.
type Handler struct {
	Spawns *Registry
}

func NewHandler(spawns *Registry) *Handler {
	return &Handler{Spawns: spawns}
}

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
)

// childRand derives an independent generator so callers do not hold rngMu.
func childRand() *rand.Rand {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
}

// withRand serialises access to the shared generator.
func withRand[T any](fn func(r *rand.Rand) T) T {
	rngMu.Lock()
	defer rngMu.Unlock()
	return fn(rng)
}

var spawnMessages = []string{
	"A wild countryball appeared!",
	"A wild countryball appeared! Catch it before it rolls away!",
	"Look, a countryball! Catch it!",
	"This countryball is staring at you from afar.",
	"Quick, catch this countryball before someone else does!",
	"A countryball has crossed the border into this channel.",
	"Catch me if you can! >:3",
	"This countryball needs a place to stay!",
	"A countryball is lost. Take it home!",
	"Is it a countryball? Or just a figment of your imagination...",
	"A wild countryball approaches! Why don't you catch it?",
	"Take me :3",
}

const fileNameLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// spawnFileName hides the ball's identity behind a random attachment name.
func spawnFileName(wildCard string, r *rand.Rand) string {
	var b strings.Builder
	for n := 0; n < 15; n++ {
		b.WriteByte(fileNameLetters[r.IntN(len(fileNameLetters))])
	}
	ext := strings.TrimPrefix(filepath.Ext(wildCard), ".")
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("nt_%s.%s", b.String(), ext)
}

func catchButton(id string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Take me :3",
					Style:    discordgo.PrimaryButton,
					CustomID: CatchButtonPrefix + id,
					Disabled: disabled,
				},
			},
		},
	}
}

// SpawnBall posts a random enabled ball in channelID.
func (h *Handler) SpawnBall(s *discordgo.Session, db *gorm.DB, guildID string, channelID string) (*Spawn, error) {
	balls, err := ballService.EnabledBalls(db)
	if err != nil {
		return nil, err
	}
	rngMu.Lock()
	ball, err := PickBall(balls, rng)
	rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	spawn := Spawn{
		ID:        uuid.NewString(),
		Ball:      ball,
		GuildID:   guildID,
		ChannelID: channelID,
		SpawnedAt: time.Now(),
	}

	message := &discordgo.MessageSend{
		Content:    withRand(func(r *rand.Rand) string { return spawnMessages[r.IntN(len(spawnMessages))] }),
		Components: catchButton(spawn.ID, false),
	}
	if ball.WildCard != "" {
		file, err := os.Open(ball.WildCard)
		if err != nil {
			return nil, fmt.Errorf("error opening wild card for %s: %v", ball.Country, err)
		}
		defer file.Close()
		message.Files = []*discordgo.File{{
			Name:   withRand(func(r *rand.Rand) string { return spawnFileName(ball.WildCard, r) }),
			Reader: file,
		}}
	}

	msg, err := s.ChannelMessageSendComplex(channelID, message)
	if err != nil {
		return nil, fmt.Errorf("error spawning in channel %s: %v", channelID, err)
	}
	spawn.MessageID = msg.ID
	h.Spawns.Add(spawn)

	log.Info().Str("guild_id", guildID).Str("channel_id", channelID).Str("ball", ball.Country).Msg("ball spawned")
	return &spawn, nil
}

// SpawnAll spawns a ball in every guild that has spawning enabled and returns
// how many were posted.
func (h *Handler) SpawnAll(s *discordgo.Session, db *gorm.DB) (int, error) {
	var guilds []models.Guild
	if err := db.Where("spawn_enabled = ? AND spawn_channel_id IS NOT NULL", true).Find(&guilds).Error; err != nil {
		return 0, fmt.Errorf("error fetching spawn guilds: %v", err)
	}

	spawned := 0
	for _, guild := range guilds {
		if guild.SpawnChannelID == nil || *guild.SpawnChannelID == "" {
			continue
		}
		if _, err := h.SpawnBall(s, db, guild.GuildID, *guild.SpawnChannelID); err != nil {
			log.Error().Err(err).Str("guild_id", guild.GuildID).Msg("error spawning ball")
			continue
		}
		spawned++
	}
	return spawned, nil
}

// ExpireSpawns disables the buttons of spawns nobody caught in time and
// returns how many expired.
func (h *Handler) ExpireSpawns(s *discordgo.Session) int {
	expired := h.Spawns.Expire()
	for _, spawn := range expired {
		components := catchButton(spawn.ID, true)
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         spawn.MessageID,
			Channel:    spawn.ChannelID,
			Components: &components,
		})
		if err != nil {
			log.Warn().Err(err).Str("message_id", spawn.MessageID).Msg("error disabling expired spawn")
		}
	}
	return len(expired)
}
