package service

import (
	"context"
	"sort"
	"sync"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/models"
	"heating_profiles/internal/repository"
)

// In-memory repositories shared by the service tests. They are safe for
// concurrent use because the simulator saves from several goroutines.

type memZoneRepo struct {
	mu     sync.Mutex
	nextID int
	zones  map[int]models.Zone
	err    error
}

func newMemZoneRepo(zs ...models.Zone) *memZoneRepo {
	r := &memZoneRepo{zones: map[int]models.Zone{}}
	for _, z := range zs {
		r.zones[z.ID] = z
		r.nextID = max(r.nextID, z.ID)
	}
	return r
}

func (r *memZoneRepo) Create(ctx context.Context, z models.Zone) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	z.ID = r.nextID
	r.zones[z.ID] = z
	return z.ID, nil
}

func (r *memZoneRepo) Get(ctx context.Context, id int) (models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return models.Zone{}, repository.ErrNotFound
	}
	return z, nil
}

func (r *memZoneRepo) List(ctx context.Context) ([]models.Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Zone, 0, len(r.zones))
	for _, z := range r.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memZoneRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.zones[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.zones, id)
	return nil
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	gets     int
}

func newMemProfileRepo(ps ...models.Profile) *memProfileRepo {
	r := &memProfileRepo{profiles: map[string]models.Profile{}}
	for _, p := range ps {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *memProfileRepo) Create(ctx context.Context, p models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *memProfileRepo) Get(ctx context.Context, id string) (models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.profiles[id]
	if !ok {
		return models.Profile{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *memProfileRepo) List(ctx context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProfileRepo) Update(ctx context.Context, p models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *memProfileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, id)
	return nil
}

type memControllerRepo struct {
	mu          sync.Mutex
	nextID      int
	controllers map[int]models.Controller
	saves       int
	listErr     error
}

func newMemControllerRepo(cs ...models.Controller) *memControllerRepo {
	r := &memControllerRepo{controllers: map[int]models.Controller{}}
	for _, c := range cs {
		r.controllers[c.ID] = c
		r.nextID = max(r.nextID, c.ID)
	}
	return r
}

func (r *memControllerRepo) Create(ctx context.Context, c models.Controller) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.controllers[c.ID] = c
	return c.ID, nil
}

func (r *memControllerRepo) Get(ctx context.Context, id int) (models.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[id]
	if !ok {
		return models.Controller{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *memControllerRepo) List(ctx context.Context, zoneID int) ([]models.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Controller, 0, len(r.controllers))
	for _, c := range r.controllers {
		if zoneID == 0 || c.ZoneID == zoneID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memControllerRepo) Save(ctx context.Context, c models.Controller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.saves++
	r.controllers[c.ID] = c
	return nil
}

// SaveReading applies the same run-state guard as the sqlite repository.
func (r *memControllerRepo) SaveReading(ctx context.Context, c, read models.Controller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.controllers[c.ID]
	if !ok || cur.IsRunning != read.IsRunning || cur.ProfileID != read.ProfileID || !cur.StartedAt.Equal(read.StartedAt) {
		return repository.ErrStale
	}
	cur.CurrentTempC = c.CurrentTempC
	cur.TargetTempC = c.TargetTempC
	cur.Progress = c.Progress
	cur.ErrorCodes = c.ErrorCodes
	cur.IsRunning = c.IsRunning
	cur.UpdatedAt = c.UpdatedAt
	r.saves++
	r.controllers[c.ID] = cur
	return nil
}

func (r *memControllerRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.controllers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.controllers, id)
	return nil
}

// racingControllerRepo runs afterList once, right after the simulator has
// listed controllers and before it writes any of them back.
type racingControllerRepo struct {
	*memControllerRepo
	afterList func()
}

func (r *racingControllerRepo) List(ctx context.Context, zoneID int) ([]models.Controller, error) {
	out, err := r.memControllerRepo.List(ctx, zoneID)
	if r.afterList != nil {
		hook := r.afterList
		r.afterList = nil
		hook()
	}
	return out, err
}

// mustGet reads a controller without going through the interface.
func (r *memControllerRepo) mustGet(id int) models.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controllers[id]
}

type memEventRepo struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *memEventRepo) Append(ctx context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, f repository.EventFilter) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...), nil
}

// ofType returns the recorded events of one type.
func (r *memEventRepo) ofType(typ string) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// quickRamp is a 10 minute 100..500 °C profile with the default curve.
func quickRamp() models.Profile {
	return models.Profile{
		ID:              "quick-ramp",
		Name:            "Quick ramp",
		DurationMinutes: 10,
		MinTempC:        100,
		MaxTempC:        500,
		Points:          curve.Default(),
	}
}

// slowProfileRepo runs afterGet once, after a row was read but before it is
// handed back, standing in for a load that loses a race with a writer.
type slowProfileRepo struct {
	*memProfileRepo
	afterGet func()
}

func (r *slowProfileRepo) Get(ctx context.Context, id string) (models.Profile, error) {
	p, err := r.memProfileRepo.Get(ctx, id)
	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook()
	}
	return p, err
}
