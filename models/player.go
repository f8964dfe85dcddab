package models

import "gorm.io/gorm"

type Player struct {
	gorm.Model
	ID        uint   `gorm:"primaryKey"`
	DiscordID string `gorm:"uniqueIndex; size:64"`
	Username  *string
}
