package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(seed ...player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(seed))
	for _, p := range seed {
		items[p.ID] = clonePlayer(p)
	}
	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, clonePlayer(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Username < out[j].Username })

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) GetByUsername(_ context.Context, username string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.Username == username {
			return clonePlayer(p), true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetByEmail(_ context.Context, email string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.Email == email {
			return clonePlayer(p), true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePlayer(p)
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePlayer(p)
	return nil
}

func clonePlayer(p player.Player) player.Player {
	copied := p
	if p.Birthday != nil {
		birthday := *p.Birthday
		copied.Birthday = &birthday
	}
	return copied
}
