package battle

// Origin points at the proposal message so it can be edited as the battle evolves.
type Origin struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// Session is a duel between two participants, identified by Discord user ID.
type Session struct {
	ParticipantA string
	ParticipantB string
	NameA        string
	NameB        string
	DeckA        []Entry
	DeckB        []Entry
	ReadyA       bool
	ReadyB       bool
	MaxEntries   int
	Origin       Origin
}

func (s *Session) Has(participant string) bool {
	return participant == s.ParticipantA || participant == s.ParticipantB
}

func (s *Session) SideOf(participant string) Side {
	switch participant {
	case s.ParticipantA:
		return SideA
	case s.ParticipantB:
		return SideB
	}
	return Draw
}

// Participant returns the user ID playing side, or "" for a draw.
func (s *Session) Participant(side Side) string {
	switch side {
	case SideA:
		return s.ParticipantA
	case SideB:
		return s.ParticipantB
	}
	return ""
}

func (s *Session) Name(side Side) string {
	switch side {
	case SideA:
		return s.NameA
	case SideB:
		return s.NameB
	}
	return ""
}

func (s *Session) Deck(participant string) []Entry {
	if participant == s.ParticipantA {
		return s.DeckA
	}
	return s.DeckB
}

func (s *Session) IsReady(participant string) bool {
	if participant == s.ParticipantA {
		return s.ReadyA
	}
	return s.ReadyB
}

func (s *Session) deckOf(participant string) *[]Entry {
	if participant == s.ParticipantA {
		return &s.DeckA
	}
	return &s.DeckB
}

func (s *Session) readyOf(participant string) *bool {
	if participant == s.ParticipantA {
		return &s.ReadyA
	}
	return &s.ReadyB
}

func (s *Session) addEntry(participant string, e Entry) error {
	if s.IsReady(participant) {
		return ErrAlreadyReady
	}
	deck := s.deckOf(participant)
	if s.MaxEntries != 0 && len(*deck) >= s.MaxEntries {
		return ErrCapacity
	}
	if indexOf(*deck, e) >= 0 {
		return ErrDuplicateEntry
	}
	*deck = append(*deck, e)
	return nil
}

func (s *Session) removeEntry(participant string, e Entry) error {
	if s.IsReady(participant) {
		return ErrAlreadyReady
	}
	deck := s.deckOf(participant)
	idx := indexOf(*deck, e)
	if idx < 0 {
		return ErrEntryNotFound
	}
	*deck = append((*deck)[:idx:idx], (*deck)[idx+1:]...)
	return nil
}

// snapshot copies the session so callers never share its decks.
func (s *Session) snapshot() Session {
	cp := *s
	cp.DeckA = append([]Entry(nil), s.DeckA...)
	cp.DeckB = append([]Entry(nil), s.DeckB...)
	return cp
}
