package battleService

import (
	"fmt"

	"ballsDexBot/models"
	"ballsDexBot/services/battleService/battle"
)

// rarityBuffs adds a flat bonus to both stats of instances carrying the special.
var rarityBuffs = map[string]int{
	"Valentine 2024":       5000,
	"Pride 2024":           5000,
	"Autumn 2024":          5000,
	"Kissmas 2024":         5000,
	"Symphony":             5000,
	"Halloween 2024":       7500,
	"Birthday 2024":        10000,
	"Afterparty 2024":      10000,
	"Treat":                10000,
	"Lunar New Year 2025":  10000,
	"Valentine's Day 2025": 10000,
	"April Fools 2025":     10000,
	"Easter 2025":          10000,
	"Halloween 2023":       15000,
	"Kissmas 2023":         15000,
	"Shiny":                20000,
	"Fabled":               50000,
	"Boss":                 100000,
}

func RarityBuff(special string) int {
	return rarityBuffs[special]
}

// EntryName is the short label of an instance without any emoji.
func EntryName(instance models.BallInstance) string {
	return fmt.Sprintf("#%X %s", instance.ID, instance.Ball.Country)
}

// BuildDeckEntry turns an owned instance into a combatant. Stats are clamped
// before the special's buff is added, so buffed entries may exceed MaxStat.
func BuildDeckEntry(instance models.BallInstance, ownerName string) battle.Entry {
	buff := RarityBuff(instance.SpecialName())
	return battle.Entry{
		DisplayName: EntryName(instance),
		OwnerName:   ownerName,
		Health:      battle.ClampStat(instance.Health()) + buff,
		Attack:      battle.ClampStat(instance.Attack()) + buff,
		Icon:        instance.Ball.Emoji(),
	}
}

func buildDeckEntries(instances []models.BallInstance, ownerName string) []battle.Entry {
	entries := make([]battle.Entry, 0, len(instances))
	for _, instance := range instances {
		entries = append(entries, BuildDeckEntry(instance, ownerName))
	}
	return entries
}
