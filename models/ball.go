package models

import (
	"strings"

	"gorm.io/gorm"
)

// Ball is a collectible definition. Instances owned by players live in BallInstance.
type Ball struct {
	gorm.Model
	ID           uint    `gorm:"primaryKey"`
	Country      string  `gorm:"uniqueIndex; size:48"`
	Rarity       float64 // spawn weight, lower is rarer
	EmojiID      string  `gorm:"size:64"`
	Enabled      bool    `gorm:"default:true"`
	Tradeable    bool    `gorm:"default:true"`
	Health       int
	Attack       int
	CatchNames   *string // ";" separated alternative answers
	Translations *string // ";" separated translated answers
	WildCard     string  // path of the spawn image
}

// Emoji renders the custom emoji markup, or "" when none is configured.
func (b Ball) Emoji() string {
	if b.EmojiID == "" {
		return ""
	}
	return "<:ball:" + b.EmojiID + ">"
}

// CatchAnswers returns every lowercase name accepted when catching this ball.
func (b Ball) CatchAnswers() []string {
	answers := []string{strings.ToLower(b.Country)}
	for _, list := range []*string{b.CatchNames, b.Translations} {
		if list == nil || *list == "" {
			continue
		}
		for _, name := range strings.Split(*list, ";") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				answers = append(answers, name)
			}
		}
	}
	return answers
}
