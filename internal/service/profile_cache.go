package service

import (
	"context"
	"sync"

	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// ProfileCache keeps decoded profiles in memory so the simulator does not
// parse curve JSON on every tick. Entries are dropped on update and delete.
//
// Each id carries a generation bumped by Invalidate. A load that started
// before an invalidation is returned to its caller but never stored.
type ProfileCache struct {
	repo     repository.ProfileRepo
	profiles cmap.ConcurrentMap[string, models.Profile]

	mu   sync.Mutex
	gens map[string]uint64
}

func NewProfileCache(repo repository.ProfileRepo) *ProfileCache {
	return &ProfileCache{
		repo:     repo,
		profiles: cmap.New[models.Profile](),
		gens:     map[string]uint64{},
	}
}

// Get returns the cached profile, loading it from the repository on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (models.Profile, error) {
	if p, ok := c.profiles.Get(id); ok {
		return p, nil
	}
	gen := c.generation(id)
	p, err := c.repo.Get(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}

	c.mu.Lock()
	if c.gens[id] == gen {
		c.profiles.Set(id, p)
	}
	c.mu.Unlock()
	return p, nil
}

func (c *ProfileCache) Invalidate(id string) {
	c.mu.Lock()
	c.gens[id]++
	c.profiles.Remove(id)
	c.mu.Unlock()
}

// Len is the number of cached profiles.
func (c *ProfileCache) Len() int {
	return c.profiles.Count()
}

func (c *ProfileCache) generation(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id]
}
