package battle

import "errors"

var (
	ErrDuplicateSession = errors.New("participant is already in a battle")
	ErrNotInSession     = errors.New("participant is not in a battle")
	ErrAlreadyReady     = errors.New("participant is already ready")
	ErrCapacity         = errors.New("deck is at its maximum size")
	ErrDuplicateEntry   = errors.New("entry is already in the deck")
	ErrEntryNotFound    = errors.New("entry is not in the deck")
	ErrEmptyDeck        = errors.New("both decks need at least one entry")
	ErrInvalidBattle    = errors.New("cannot battle with an empty deck")
)
