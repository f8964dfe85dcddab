package spawnService

import (
	"errors"
	"sync"
	"time"

	"ballsDexBot/models"
)

// SpawnTimeout is how long a spawned ball can be caught before its button is disabled.
const SpawnTimeout = 3 * time.Minute

var (
	ErrSpawnNotFound = errors.New("spawn not found")
	ErrAlreadyCaught = errors.New("spawn already caught")
)

// Spawn is a ball waiting in a channel to be caught.
type Spawn struct {
	ID        string
	Ball      models.Ball
	GuildID   string
	ChannelID string
	MessageID string
	SpawnedAt time.Time
	Caught    bool
}

// Registry tracks live spawns. Catching is decided under mu so only the first
// correct guess wins.
type Registry struct {
	mu      sync.Mutex
	spawns  map[string]*Spawn
	timeout time.Duration
	now     func() time.Time
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		spawns:  make(map[string]*Spawn),
		timeout: timeout,
		now:     time.Now,
	}
}

func (r *Registry) Add(spawn Spawn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp := spawn
	r.spawns[spawn.ID] = &sp
}

func (r *Registry) expired(sp *Spawn) bool {
	return r.now().Sub(sp.SpawnedAt) >= r.timeout
}

// Get returns a spawn that can still be caught.
func (r *Registry) Get(id string) (Spawn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spawns[id]
	if !ok || sp.Caught || r.expired(sp) {
		return Spawn{}, false
	}
	return *sp, true
}

// TryCatch marks the spawn caught. Only the first caller succeeds.
func (r *Registry) TryCatch(id string) (Spawn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spawns[id]
	if !ok || r.expired(sp) {
		return Spawn{}, ErrSpawnNotFound
	}
	if sp.Caught {
		return Spawn{}, ErrAlreadyCaught
	}
	sp.Caught = true
	return *sp, nil
}

// Release puts a caught spawn back up for grabs, for when the catch could not
// be saved.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sp, ok := r.spawns[id]; ok {
		sp.Caught = false
	}
}

// Expire drops caught and timed out spawns. The uncaught ones are returned so
// their buttons can be disabled.
func (r *Registry) Expire() []Spawn {
	r.mu.Lock()
	defer r.mu.Unlock()
	var timedOut []Spawn
	for id, sp := range r.spawns {
		if sp.Caught {
			delete(r.spawns, id)
			continue
		}
		if r.expired(sp) {
			timedOut = append(timedOut, *sp)
			delete(r.spawns, id)
		}
	}
	return timedOut
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spawns)
}
