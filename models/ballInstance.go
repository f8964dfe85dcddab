package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BallInstance struct {
	gorm.Model
	ID          uint `gorm:"primaryKey"`
	BallID      uint `gorm:"index:idx_player_ball; not null"`
	Ball        Ball `gorm:"foreignKey:BallID"`
	PlayerID    uint `gorm:"index:idx_player_ball; not null"`
	Player      Player `gorm:"foreignKey:PlayerID; constraint:OnDelete:CASCADE"`
	SpecialID   *uint
	Special     *Special `gorm:"foreignKey:SpecialID"`
	AttackBonus int
	HealthBonus int
	ServerID    *string `gorm:"size:64"`
	SpawnedTime *time.Time
}

// Attack and Health apply the percentage bonus rolled at catch time. Ball must be loaded.
func (b BallInstance) Attack() int {
	return int(float64(b.Ball.Attack) * (1 + float64(b.AttackBonus)/100))
}

func (b BallInstance) Health() int {
	return int(float64(b.Ball.Health) * (1 + float64(b.HealthBonus)/100))
}

func (b BallInstance) SpecialName() string {
	if b.Special == nil {
		return ""
	}
	return b.Special.Name
}

// Description is the short "#1A Country" label, prefixed by the special emoji if any.
func (b BallInstance) Description() string {
	prefix := ""
	if b.Special != nil && b.Special.Emoji != "" {
		prefix = b.Special.Emoji + " "
	}
	return fmt.Sprintf("%s#%X %s", prefix, b.ID, b.Ball.Country)
}
