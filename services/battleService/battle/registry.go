package battle

import (
	"errors"
	"sync"
)

// Registry tracks the active battles, at most one per participant. discordgo
// runs handlers concurrently, so every read and mutation holds mu and callers
// only ever receive copies.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Find(participant string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return Session{}, false
	}
	return s.snapshot(), true
}

func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(s)
}

func (r *Registry) register(s *Session) error {
	if s.ParticipantA == s.ParticipantB {
		return ErrDuplicateSession
	}
	if _, ok := r.sessions[s.ParticipantA]; ok {
		return ErrDuplicateSession
	}
	if _, ok := r.sessions[s.ParticipantB]; ok {
		return ErrDuplicateSession
	}
	r.sessions[s.ParticipantA] = s
	r.sessions[s.ParticipantB] = s
	return nil
}

func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(s)
}

func (r *Registry) remove(s *Session) {
	for _, p := range []string{s.ParticipantA, s.ParticipantB} {
		if r.sessions[p] == s {
			delete(r.sessions, p)
		}
	}
}

// Create opens a battle between a and b. A negative maxEntries means unlimited.
func (r *Registry) Create(a, nameA, b, nameB string, maxEntries int) (Session, error) {
	if maxEntries < 0 {
		maxEntries = 0
	}
	s := &Session{
		ParticipantA: a,
		ParticipantB: b,
		NameA:        nameA,
		NameB:        nameB,
		DeckA:        []Entry{},
		DeckB:        []Entry{},
		MaxEntries:   maxEntries,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.register(s); err != nil {
		return Session{}, err
	}
	return s.snapshot(), nil
}

// SetOrigin records the proposal message once it has been sent.
func (r *Registry) SetOrigin(participant string, origin Origin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return ErrNotInSession
	}
	s.Origin = origin
	return nil
}

// AddEntry appends e to the participant's deck. An equal entry already on
// that side is reported through alreadyPresent and leaves the deck untouched.
func (r *Registry) AddEntry(participant string, e Entry) (alreadyPresent bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return false, ErrNotInSession
	}
	err = s.addEntry(participant, e)
	if errors.Is(err, ErrDuplicateEntry) {
		return true, nil
	}
	return false, err
}

func (r *Registry) RemoveEntry(participant string, e Entry) (notFound bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return false, ErrNotInSession
	}
	err = s.removeEntry(participant, e)
	if errors.Is(err, ErrEntryNotFound) {
		return true, nil
	}
	return false, err
}

// AddEntries adds entries in order under a single lock, skipping duplicates.
// It stops at the first hard error and reports what was added before it.
func (r *Registry) AddEntries(participant string, entries []Entry) (added int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return 0, ErrNotInSession
	}
	for _, e := range entries {
		err := s.addEntry(participant, e)
		if errors.Is(err, ErrDuplicateEntry) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (r *Registry) RemoveEntries(participant string, entries []Entry) (removed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return 0, ErrNotInSession
	}
	for _, e := range entries {
		err := s.removeEntry(participant, e)
		if errors.Is(err, ErrEntryNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SetReady marks the participant ready. Once both sides are ready the battle
// is resolved and removed; outcome is nil while waiting on the other side.
// With an empty deck on either side ErrEmptyDeck is returned and the empty
// sides are un-readied so they can add entries.
func (r *Registry) SetReady(participant string) (Session, *Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return Session{}, nil, ErrNotInSession
	}

	*s.readyOf(participant) = true
	if !(s.ReadyA && s.ReadyB) {
		return s.snapshot(), nil, nil
	}

	if len(s.DeckA) == 0 || len(s.DeckB) == 0 {
		if len(s.DeckA) == 0 {
			s.ReadyA = false
		}
		if len(s.DeckB) == 0 {
			s.ReadyB = false
		}
		return s.snapshot(), nil, ErrEmptyDeck
	}

	outcome, err := Resolve(s.DeckA, s.DeckB)
	if err != nil {
		return s.snapshot(), nil, err
	}
	r.remove(s)
	return s.snapshot(), outcome, nil
}

func (r *Registry) Cancel(participant string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[participant]
	if !ok {
		return Session{}, ErrNotInSession
	}
	r.remove(s)
	return s.snapshot(), nil
}

// ClearAll drops every battle and returns how many were active.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := len(r.sessions) / 2
	r.sessions = make(map[string]*Session)
	return count
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions) / 2
}
