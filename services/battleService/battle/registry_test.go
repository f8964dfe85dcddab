package battle

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func newBattle(t *testing.T, maxEntries int) *Registry {
	t.Helper()
	r := NewRegistry()
	if _, err := r.Create("alice", "Alice", "bob", "Bob", maxEntries); err != nil {
		t.Fatalf("failed to create battle: %v", err)
	}
	return r
}

func TestRegistry_CreateRejectsDuplicates(t *testing.T) {
	r := newBattle(t, 0)

	tests := []struct {
		name string
		a, b string
	}{
		{name: "author already battling", a: "alice", b: "carol"},
		{name: "opponent already battling", a: "carol", b: "bob"},
		{name: "self battle", a: "dave", b: "dave"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Create(tt.a, tt.a, tt.b, tt.b, 0); !errors.Is(err, ErrDuplicateSession) {
				t.Errorf("expected ErrDuplicateSession, got %v", err)
			}
		})
	}

	if r.Len() != 1 {
		t.Errorf("expected a single battle, got %d", r.Len())
	}
	if _, ok := r.Find("carol"); ok {
		t.Error("carol should not be in a battle")
	}
}

func TestRegistry_RegisterAndRemove(t *testing.T) {
	r := NewRegistry()
	s := &Session{ParticipantA: "a", ParticipantB: "b"}

	if err := r.Register(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&Session{ParticipantA: "b", ParticipantB: "c"}); !errors.Is(err, ErrDuplicateSession) {
		t.Errorf("expected ErrDuplicateSession, got %v", err)
	}

	r.Remove(s)
	for _, p := range []string{"a", "b"} {
		if _, ok := r.Find(p); ok {
			t.Errorf("expected %s to be removed", p)
		}
	}
}

func TestRegistry_NegativeMaxIsUnlimited(t *testing.T) {
	r := NewRegistry()
	s, err := r.Create("a", "A", "b", "B", -4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxEntries != 0 {
		t.Errorf("expected max entries 0, got %d", s.MaxEntries)
	}
}

func TestRegistry_AddThenRemoveRestoresDeck(t *testing.T) {
	r := newBattle(t, 0)
	first := entry("Reichtangle", "Alice", 10, 5)
	second := entry("Djibouti", "Alice", 8, 3)
	third := entry("Nauru", "Alice", 4, 4)

	for _, e := range []Entry{first, second} {
		if present, err := r.AddEntry("alice", e); err != nil || present {
			t.Fatalf("add %s: present=%v err=%v", e.DisplayName, present, err)
		}
	}
	before, _ := r.Find("alice")

	if _, err := r.AddEntry("alice", third); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notFound, err := r.RemoveEntry("alice", third); err != nil || notFound {
		t.Fatalf("remove: notFound=%v err=%v", notFound, err)
	}

	after, _ := r.Find("alice")
	if !reflect.DeepEqual(before.DeckA, after.DeckA) {
		t.Errorf("expected deck %v, got %v", before.DeckA, after.DeckA)
	}

	// Removing from the middle keeps the order of the rest.
	if _, err := r.RemoveEntry("alice", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ = r.Find("alice")
	if len(after.DeckA) != 1 || !after.DeckA[0].Equal(second) {
		t.Errorf("expected only Djibouti left, got %v", after.DeckA)
	}
}

func TestRegistry_DuplicateAndMissingEntries(t *testing.T) {
	r := newBattle(t, 0)
	e := entry("Reichtangle", "Alice", 10, 5)

	if _, err := r.AddEntry("alice", e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withIcon := e
	withIcon.Icon = "<:ball:1>"
	present, err := r.AddEntry("alice", withIcon)
	if err != nil || !present {
		t.Errorf("expected duplicate to be reported, got present=%v err=%v", present, err)
	}

	notFound, err := r.RemoveEntry("alice", entry("Nauru", "Alice", 1, 1))
	if err != nil || !notFound {
		t.Errorf("expected missing entry to be reported, got notFound=%v err=%v", notFound, err)
	}

	s, _ := r.Find("bob")
	if len(s.DeckA) != 1 || len(s.DeckB) != 0 {
		t.Errorf("unexpected decks %v / %v", s.DeckA, s.DeckB)
	}
}

func TestRegistry_Capacity(t *testing.T) {
	r := newBattle(t, 2)

	for _, name := range []string{"one", "two"} {
		if _, err := r.AddEntry("bob", entry(name, "Bob", 1, 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := r.AddEntry("bob", entry("three", "Bob", 1, 1)); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}

	s, _ := r.Find("bob")
	if len(s.DeckB) != 2 {
		t.Errorf("expected deck of 2, got %d", len(s.DeckB))
	}
}

func TestRegistry_AddEntriesStopsAtCapacity(t *testing.T) {
	r := newBattle(t, 2)
	entries := []Entry{
		entry("one", "Alice", 1, 1),
		entry("one", "Alice", 1, 1),
		entry("two", "Alice", 1, 1),
		entry("three", "Alice", 1, 1),
	}

	added, err := r.AddEntries("alice", entries)
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}

	removed, err := r.RemoveEntries("alice", entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
}

func TestRegistry_NotInSession(t *testing.T) {
	r := NewRegistry()
	e := entry("x", "y", 1, 1)

	if _, err := r.AddEntry("ghost", e); !errors.Is(err, ErrNotInSession) {
		t.Errorf("AddEntry: expected ErrNotInSession, got %v", err)
	}
	if _, err := r.RemoveEntry("ghost", e); !errors.Is(err, ErrNotInSession) {
		t.Errorf("RemoveEntry: expected ErrNotInSession, got %v", err)
	}
	if _, _, err := r.SetReady("ghost"); !errors.Is(err, ErrNotInSession) {
		t.Errorf("SetReady: expected ErrNotInSession, got %v", err)
	}
	if _, err := r.Cancel("ghost"); !errors.Is(err, ErrNotInSession) {
		t.Errorf("Cancel: expected ErrNotInSession, got %v", err)
	}
	if err := r.SetOrigin("ghost", Origin{}); !errors.Is(err, ErrNotInSession) {
		t.Errorf("SetOrigin: expected ErrNotInSession, got %v", err)
	}
}

func TestRegistry_ReadyLocksDeck(t *testing.T) {
	r := newBattle(t, 0)
	e := entry("Reichtangle", "Alice", 10, 5)
	if _, err := r.AddEntry("alice", e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, outcome, err := r.SetReady("alice")
	if err != nil || outcome != nil {
		t.Fatalf("expected to wait for bob, got outcome=%v err=%v", outcome, err)
	}
	if !s.ReadyA || s.ReadyB {
		t.Errorf("unexpected ready flags A=%v B=%v", s.ReadyA, s.ReadyB)
	}

	if _, err := r.AddEntry("alice", entry("Nauru", "Alice", 1, 1)); !errors.Is(err, ErrAlreadyReady) {
		t.Errorf("expected ErrAlreadyReady on add, got %v", err)
	}
	if _, err := r.RemoveEntry("alice", e); !errors.Is(err, ErrAlreadyReady) {
		t.Errorf("expected ErrAlreadyReady on remove, got %v", err)
	}

	// The other side is still free to edit.
	if _, err := r.AddEntry("bob", entry("Djibouti", "Bob", 8, 3)); err != nil {
		t.Errorf("expected bob to add freely, got %v", err)
	}
}

func TestRegistry_BothReadyResolvesOnce(t *testing.T) {
	r := newBattle(t, 0)
	r.AddEntry("alice", entry("Reichtangle", "Alice", 10, 5))
	r.AddEntry("bob", entry("Djibouti", "Bob", 8, 3))

	if _, outcome, err := r.SetReady("bob"); err != nil || outcome != nil {
		t.Fatalf("expected waiting, got outcome=%v err=%v", outcome, err)
	}
	if r.Len() != 1 {
		t.Fatalf("battle should still be active")
	}

	s, outcome, err := r.SetReady("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome == nil {
		t.Fatal("expected an outcome once both are ready")
	}
	if outcome.Winner != SideA || outcome.Turns != 3 {
		t.Errorf("expected A to win in 3 turns, got %v in %d", outcome.Winner, outcome.Turns)
	}
	if s.Participant(outcome.Winner) != "alice" || s.Name(outcome.Winner) != "Alice" {
		t.Errorf("unexpected winner %q", s.Participant(outcome.Winner))
	}
	if r.Len() != 0 {
		t.Errorf("expected the battle to be removed, got %d", r.Len())
	}
	if _, _, err := r.SetReady("alice"); !errors.Is(err, ErrNotInSession) {
		t.Errorf("expected a second ready to find nothing, got %v", err)
	}
	if _, err := r.Cancel("bob"); !errors.Is(err, ErrNotInSession) {
		t.Errorf("expected cancel after resolution to find nothing, got %v", err)
	}
}

func TestRegistry_EmptyDeckAllowsCorrection(t *testing.T) {
	r := newBattle(t, 0)
	r.AddEntry("alice", entry("Reichtangle", "Alice", 10, 5))

	r.SetReady("bob")
	s, outcome, err := r.SetReady("alice")
	if !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
	if outcome != nil {
		t.Error("expected no outcome")
	}
	if !s.ReadyA || s.ReadyB {
		t.Errorf("expected only the empty side to be un-readied, got A=%v B=%v", s.ReadyA, s.ReadyB)
	}
	if r.Len() != 1 {
		t.Fatal("expected the battle to stay active")
	}

	if _, err := r.AddEntry("bob", entry("Djibouti", "Bob", 8, 3)); err != nil {
		t.Fatalf("expected bob to be able to fix the deck, got %v", err)
	}
	if _, outcome, err := r.SetReady("bob"); err != nil || outcome == nil {
		t.Errorf("expected resolution after correction, got outcome=%v err=%v", outcome, err)
	}
}

func TestRegistry_CancelAndClearAll(t *testing.T) {
	r := newBattle(t, 0)
	if _, err := r.Create("carol", "Carol", "dave", "Dave", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.SetReady("alice")

	s, err := r.Cancel("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ParticipantA != "alice" {
		t.Errorf("expected the cancelled battle snapshot, got %+v", s)
	}
	if _, ok := r.Find("alice"); ok {
		t.Error("expected alice to be free after cancel")
	}

	if _, err := r.Create("alice", "Alice", "bob", "Bob", 0); err != nil {
		t.Errorf("expected a fresh battle to be allowed, got %v", err)
	}

	if n := r.ClearAll(); n != 2 {
		t.Errorf("expected 2 cleared battles, got %d", n)
	}
	if r.Len() != 0 {
		t.Errorf("expected no battles, got %d", r.Len())
	}
}

func TestRegistry_SnapshotsAreCopies(t *testing.T) {
	r := newBattle(t, 0)
	r.AddEntry("alice", entry("Reichtangle", "Alice", 10, 5))

	s, _ := r.Find("alice")
	s.DeckA[0].Health = 1
	s.DeckA = append(s.DeckA, entry("x", "y", 1, 1))

	fresh, _ := r.Find("alice")
	if len(fresh.DeckA) != 1 || fresh.DeckA[0].Health != 10 {
		t.Errorf("registry state leaked through snapshot: %v", fresh.DeckA)
	}
}

func TestRegistry_ConcurrentAdds(t *testing.T) {
	r := newBattle(t, 50)

	var wg sync.WaitGroup
	for n := 0; n < 100; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.AddEntry("alice", entry("ball", "Alice", n, n))
		}(n)
	}
	wg.Wait()

	s, _ := r.Find("alice")
	if len(s.DeckA) != 50 {
		t.Errorf("expected capacity to hold at 50, got %d", len(s.DeckA))
	}
}
