package battle

import "fmt"

// MaxStat caps raw health and attack before any rarity buff is added.
const MaxStat = 300000

// Entry is one combatant in a deck.
type Entry struct {
	DisplayName string
	OwnerName   string
	Health      int
	Attack      int
	Icon        string
}

// Equal ignores Icon: two copies of the same collectible are the same entry.
func (e Entry) Equal(other Entry) bool {
	return e.DisplayName == other.DisplayName &&
		e.OwnerName == other.OwnerName &&
		e.Health == other.Health &&
		e.Attack == other.Attack
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (HP: %d | DMG: %d)", e.DisplayName, e.Health, e.Attack)
}

// ClampStat bounds a raw stat to [0, MaxStat].
func ClampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}

func indexOf(deck []Entry, e Entry) int {
	for idx := range deck {
		if deck[idx].Equal(e) {
			return idx
		}
	}
	return -1
}
