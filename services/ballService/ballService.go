package ballService

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"ballsDexBot/config"
	"ballsDexBot/models"
	"ballsDexBot/services/common"
)

var (
	ErrInvalidInstanceID = errors.New("invalid instance ID")
	ErrInstanceNotFound  = errors.New("instance not found")
	ErrBallNotFound      = errors.New("ball not found")
)

// GetOrCreatePlayer returns the player row for a Discord user, creating it on first use.
func GetOrCreatePlayer(db *gorm.DB, user *discordgo.User) (*models.Player, error) {
	var player models.Player
	result := db.Where("discord_id = ?", user.ID).Limit(1).Find(&player)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching player: %v", result.Error)
	}

	if result.RowsAffected == 0 {
		username := common.GetUsernameFromUser(user)
		player = models.Player{DiscordID: user.ID, Username: &username}
		if err := db.Create(&player).Error; err != nil {
			return nil, fmt.Errorf("error creating player: %v", err)
		}
	}

	return &player, nil
}

// ParseInstanceID reads the hexadecimal ID shown to players, with or without a leading "#".
func ParseInstanceID(raw string) (uint, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.ParseUint(raw, 16, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidInstanceID
	}
	return uint(id), nil
}

// GetPlayerInstance loads one of the player's instances by its displayed ID.
func GetPlayerInstance(db *gorm.DB, playerID uint, raw string) (*models.BallInstance, error) {
	id, err := ParseInstanceID(raw)
	if err != nil {
		return nil, err
	}

	var instance models.BallInstance
	result := db.Preload("Ball").Preload("Special").
		Where("id = ? AND player_id = ?", id, playerID).
		Limit(1).Find(&instance)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching %s: %v", config.Settings.CollectibleName, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInstanceNotFound
	}
	return &instance, nil
}

// ListPlayerInstances returns the player's instances, optionally of a single
// ball and optionally only those whose ball can be traded.
func ListPlayerInstances(db *gorm.DB, playerID uint, ballID *uint, tradeableOnly bool) ([]models.BallInstance, error) {
	query := db.Preload("Ball").Preload("Special").
		Joins("JOIN balls ON balls.id = ball_instances.ball_id").
		Where("ball_instances.player_id = ?", playerID)
	if ballID != nil {
		query = query.Where("ball_instances.ball_id = ?", *ballID)
	}
	if tradeableOnly {
		query = query.Where("balls.tradeable = ?", true)
	}

	var instances []models.BallInstance
	if err := query.Order("ball_instances.id asc").Find(&instances).Error; err != nil {
		return nil, fmt.Errorf("error listing %s: %v", config.Settings.PluralCollectibleName, err)
	}
	return instances, nil
}

// FindEnabledBall looks a ball up by its country name, ignoring case.
func FindEnabledBall(db *gorm.DB, name string) (*models.Ball, error) {
	var ball models.Ball
	result := db.Where("LOWER(country) = ? AND enabled = ?", strings.ToLower(strings.TrimSpace(name)), true).
		Limit(1).Find(&ball)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching %s: %v", config.Settings.CollectibleName, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrBallNotFound
	}
	return &ball, nil
}

// EnabledBalls lists every enabled ball, rarest first.
func EnabledBalls(db *gorm.DB) ([]models.Ball, error) {
	var balls []models.Ball
	if err := db.Where("enabled = ?", true).Order("rarity asc").Order("country asc").Find(&balls).Error; err != nil {
		return nil, fmt.Errorf("error listing %s: %v", config.Settings.PluralCollectibleName, err)
	}
	return balls, nil
}

func GetSpecialByName(db *gorm.DB, name string) (*models.Special, error) {
	var special models.Special
	result := db.Where("name = ?", name).Limit(1).Find(&special)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching special %s: %v", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("special %q is not configured", name)
	}
	return &special, nil
}

// ActiveSpecials returns the specials that can be rolled at now.
func ActiveSpecials(db *gorm.DB, now time.Time) ([]models.Special, error) {
	var specials []models.Special
	err := db.Where("(start_date IS NULL OR start_date <= ?) AND (end_date IS NULL OR end_date >= ?)", now, now).
		Where("rarity > ?", 0).
		Find(&specials).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching specials: %v", err)
	}
	return specials, nil
}

// CountInstances counts a player's instances of ball. A non-nil specialID
// restricts the count to that special.
func CountInstances(db *gorm.DB, playerID uint, ballID uint, specialID *uint) (int64, error) {
	query := db.Model(&models.BallInstance{}).Where("player_id = ? AND ball_id = ?", playerID, ballID)
	if specialID != nil {
		query = query.Where("special_id = ?", *specialID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting %s: %v", config.Settings.PluralCollectibleName, err)
	}
	return count, nil
}

// HasBall reports whether the player already owns any instance of ball.
func HasBall(db *gorm.DB, playerID uint, ballID uint) (bool, error) {
	count, err := CountInstances(db, playerID, ballID, nil)
	return count > 0, err
}

// BallOption reads an optional ball name option, returning nil when the option is absent.
func BallOption(db *gorm.DB, options []*discordgo.ApplicationCommandInteractionDataOption, name string) (*models.Ball, error) {
	for _, opt := range options {
		if opt.Name == name {
			return FindEnabledBall(db, opt.StringValue())
		}
	}
	return nil, nil
}

// FindBall looks a ball up by country name whether or not it is enabled.
func FindBall(db *gorm.DB, name string) (*models.Ball, error) {
	var ball models.Ball
	result := db.Where("LOWER(country) = ?", strings.ToLower(strings.TrimSpace(name))).Limit(1).Find(&ball)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching %s: %v", config.Settings.CollectibleName, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrBallNotFound
	}
	return &ball, nil
}

// ListSpecialInstances returns every instance carrying the special, optionally
// narrowed to one ball and to one owner's Discord ID.
func ListSpecialInstances(db *gorm.DB, specialID uint, ballID *uint, discordID string) ([]models.BallInstance, error) {
	query := db.Preload("Ball").Preload("Player").Preload("Special").
		Where("ball_instances.special_id = ?", specialID)
	if ballID != nil {
		query = query.Where("ball_instances.ball_id = ?", *ballID)
	}
	if discordID != "" {
		query = query.Joins("JOIN players ON players.id = ball_instances.player_id").
			Where("players.discord_id = ?", discordID)
	}

	var instances []models.BallInstance
	if err := query.Order("ball_instances.id asc").Find(&instances).Error; err != nil {
		return nil, fmt.Errorf("error listing special %s: %v", config.Settings.PluralCollectibleName, err)
	}
	return instances, nil
}

// CreateInstance stores a newly obtained instance and links its ball and special for display.
func CreateInstance(db *gorm.DB, instance *models.BallInstance) error {
	if err := db.Omit("Ball", "Player", "Special").Create(instance).Error; err != nil {
		return fmt.Errorf("error creating %s: %v", config.Settings.CollectibleName, err)
	}
	return nil
}

func DeleteInstances(db *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(&models.BallInstance{})
	if result.Error != nil {
		return 0, fmt.Errorf("error deleting %s: %v", config.Settings.PluralCollectibleName, result.Error)
	}
	return result.RowsAffected, nil
}
