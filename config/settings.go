package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env                   string
	DiscordToken          string
	DatabaseURL           string
	RedisURL              string
	LogLevel              string
	LogChannelID          string
	BotName               string
	CollectibleName       string
	PluralCollectibleName string
	RootRoleIDs           []string
	AdminRoleIDs          []string
	MaxAttackBonus        int
	MaxHealthBonus        int
	SpawnCron             string
}

// Settings is populated with defaults so packages can be exercised without
// calling Load first.
var Settings = Default()

func Default() *Config {
	return &Config{
		Env:                   "development",
		LogLevel:              "info",
		BotName:               "BallsDex",
		CollectibleName:       "countryball",
		PluralCollectibleName: "countryballs",
		MaxAttackBonus:        20,
		MaxHealthBonus:        20,
		SpawnCron:             "0 */30 * * * *",
	}
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	cfg := Default()
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.DiscordToken = os.Getenv("DISCORD_BOT_TOKEN")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogChannelID = os.Getenv("LOG_CHANNEL_ID")
	cfg.BotName = getEnv("BOT_NAME", cfg.BotName)
	cfg.CollectibleName = getEnv("COLLECTIBLE_NAME", cfg.CollectibleName)
	cfg.PluralCollectibleName = getEnv("PLURAL_COLLECTIBLE_NAME", cfg.PluralCollectibleName)
	cfg.RootRoleIDs = splitIDs(os.Getenv("ROOT_ROLE_IDS"))
	cfg.AdminRoleIDs = splitIDs(os.Getenv("ADMIN_ROLE_IDS"))
	cfg.SpawnCron = getEnv("SPAWN_CRON", cfg.SpawnCron)

	var err error
	if cfg.MaxAttackBonus, err = getEnvInt("MAX_ATTACK_BONUS", cfg.MaxAttackBonus); err != nil {
		return nil, err
	}
	if cfg.MaxHealthBonus, err = getEnvInt("MAX_HEALTH_BONUS", cfg.MaxHealthBonus); err != nil {
		return nil, err
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN not set in environment variables")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment variables")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("bot_name", cfg.BotName).
		Str("spawn_cron", cfg.SpawnCron).
		Int("root_roles", len(cfg.RootRoleIDs)).
		Int("admin_roles", len(cfg.AdminRoleIDs)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// StaffRoleIDs is the union of root and admin roles.
func (c *Config) StaffRoleIDs() []string {
	ids := make([]string, 0, len(c.RootRoleIDs)+len(c.AdminRoleIDs))
	ids = append(ids, c.RootRoleIDs...)
	return append(ids, c.AdminRoleIDs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
