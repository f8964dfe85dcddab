package models

import (
	"time"

	"gorm.io/gorm"
)

// Special is an event or rarity variant ("Shiny", "Collector", "Boss", ...).
type Special struct {
	gorm.Model
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex; size:64"`
	CatchPhrase *string
	Rarity      float64 // between 0 and 1, chance weight while the event runs
	StartDate   *time.Time
	EndDate     *time.Time
	Emoji       string `gorm:"size:64"`
}

// ActiveAt reports whether the special can be rolled at t. Missing dates are open ended.
func (s Special) ActiveAt(t time.Time) bool {
	if s.StartDate != nil && t.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && t.After(*s.EndDate) {
		return false
	}
	return true
}
