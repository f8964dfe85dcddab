package battle

import "fmt"

// TurnCeiling bounds a battle between decks that can no longer hurt each other.
const TurnCeiling = 10000

type Side int

const (
	Draw Side = iota
	SideA
	SideB
)

func (s Side) opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

type Outcome struct {
	TurnLog []string
	Winner  Side
	Turns   int
}

type combatant struct {
	Entry
	hp int
}

// survivors copies the entries still able to fight, front to back.
func survivors(deck []Entry) []*combatant {
	alive := make([]*combatant, 0, len(deck))
	for _, e := range deck {
		if e.Health > 0 {
			alive = append(alive, &combatant{Entry: e, hp: e.Health})
		}
	}
	return alive
}

// Resolve fights deckA against deckB. Each turn the acting side's front
// combatant hits the opposing front combatant; sides alternate starting with
// A. A side with no combatants left loses. The decks are not modified.
func Resolve(deckA, deckB []Entry) (*Outcome, error) {
	if len(deckA) == 0 || len(deckB) == 0 {
		return nil, ErrInvalidBattle
	}

	teams := map[Side][]*combatant{
		SideA: survivors(deckA),
		SideB: survivors(deckB),
	}
	out := &Outcome{TurnLog: []string{}}

	switch {
	case len(teams[SideA]) == 0 && len(teams[SideB]) == 0:
		out.Winner = Draw
		return out, nil
	case len(teams[SideB]) == 0:
		out.Winner = SideA
		return out, nil
	case len(teams[SideA]) == 0:
		out.Winner = SideB
		return out, nil
	}

	active := SideA
	for out.Turns < TurnCeiling {
		defending := active.opponent()
		attacker := teams[active][0]
		defender := teams[defending][0]

		defender.hp -= attacker.Attack
		out.Turns++

		line := fmt.Sprintf("Turn %d: %s's %s dealt %d damage to %s's %s (%d HP left)",
			out.Turns, attacker.OwnerName, attacker.DisplayName, attacker.Attack,
			defender.OwnerName, defender.DisplayName, defender.hp)

		if defender.hp <= 0 {
			line += fmt.Sprintf(" - %s has been defeated!", defender.DisplayName)
			teams[defending] = teams[defending][1:]
		}
		out.TurnLog = append(out.TurnLog, line)

		if len(teams[defending]) == 0 {
			out.Winner = active
			return out, nil
		}
		active = defending
	}

	out.Winner = Draw
	return out, nil
}
