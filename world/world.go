package world

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Nerahikada/BlueLight/entity"
	"github.com/Nerahikada/BlueLight/sound"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// TickRate is the number of times per second the world ticks its entities.
const TickRate = 20

// Entity is an entity that can be added to a World.
type Entity interface {
	RuntimeID() uint64
	SpawnTo(v entity.Viewer) error
	DespawnFrom(v entity.Viewer) error
	Close() error
}

// Ticker is implemented by entities that need to be updated every tick. Tick returns true once the
// entity should be removed from the world.
type Ticker interface {
	Tick() bool
}

// The World keeps track of the entities in it and the viewers looking at it. Every entity is spawned
// to every viewer, and sounds played in the world are sent to all viewers.
type World struct {
	// logger is the logger used for the world.
	logger zerolog.Logger

	mu       sync.RWMutex
	entities map[uint64]Entity
	viewers  map[string]entity.Viewer
	// closed is set once Close is called. Closed worlds don't accept new entities.
	closed bool

	currentTick int64
}

// New creates an empty world.
func New(logger zerolog.Logger) *World {
	return &World{
		logger:   logger,
		entities: make(map[uint64]Entity),
		viewers:  make(map[string]entity.Viewer),
	}
}

// AddViewer adds a viewer to the world under the key and spawns all entities to it. A viewer
// already present under the key is removed first.
func (w *World) AddViewer(key string, v entity.Viewer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeViewer(key)
	w.viewers[key] = v
	for _, e := range w.entities {
		if err := e.SpawnTo(v); err != nil {
			w.logger.Err(err).Str("viewer", key).Uint64("entity", e.RuntimeID()).Msg("failed to spawn entity to viewer")
		}
	}
	w.logger.Debug().Str("viewer", key).Int("entities", len(w.entities)).Msg("viewer added")
}

// RemoveViewer removes the viewer with the key from the world, despawning all entities from it.
func (w *World) RemoveViewer(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeViewer(key)
}

func (w *World) removeViewer(key string) {
	v, ok := w.viewers[key]
	if !ok {
		return
	}
	delete(w.viewers, key)
	for _, e := range w.entities {
		// The viewer is usually gone at this point, so a failed write is expected.
		_ = e.DespawnFrom(v)
	}
	w.logger.Debug().Str("viewer", key).Msg("viewer removed")
}

// Viewers returns the number of viewers in the world.
func (w *World) Viewers() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.viewers)
}

// AddEntity adds an entity to the world and spawns it to all viewers.
func (w *World) AddEntity(e Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("world is closed")
	}
	w.entities[e.RuntimeID()] = e
	for key, v := range w.viewers {
		if err := e.SpawnTo(v); err != nil {
			w.logger.Err(err).Str("viewer", key).Uint64("entity", e.RuntimeID()).Msg("failed to spawn entity to viewer")
		}
	}
	return nil
}

// RemoveEntity removes the entity with the runtime ID from the world and closes it. It returns false
// if no such entity was in the world.
func (w *World) RemoveEntity(id uint64) bool {
	w.mu.Lock()
	e, ok := w.entities[id]
	delete(w.entities, id)
	w.mu.Unlock()
	if !ok {
		return false
	}
	if err := e.Close(); err != nil {
		w.logger.Debug().Err(err).Uint64("entity", id).Msg("error closing entity")
	}
	return true
}

// Entity looks up an entity by its runtime ID.
func (w *World) Entity(id uint64) (Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns all entities currently in the world.
func (w *World) Entities() []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	entities := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		entities = append(entities, e)
	}
	return entities
}

// PlaySound plays the sound at the position for every viewer of the world.
func (w *World) PlaySound(pos mgl32.Vec3, s sound.Sound) {
	pks := s.Encode(pos)

	w.mu.RLock()
	defer w.mu.RUnlock()
	for key, v := range w.viewers {
		for _, pk := range pks {
			if err := v.WritePacket(pk); err != nil {
				w.logger.Err(err).Str("viewer", key).Uint32("packetID", pk.ID()).Msg("failed to send sound")
				break
			}
		}
	}
}

// LaunchFirework adds a new firework rocket to the world at the position.
func (w *World) LaunchFirework(pos mgl32.Vec3, flightDuration uint8) (*entity.Fireworks, error) {
	f := entity.NewFireworks(pos, flightDuration)
	if err := w.AddEntity(f); err != nil {
		return nil, err
	}
	w.logger.Debug().Uint64("entity", f.RuntimeID()).Int64("lifetime", f.Lifetime()).Msg("firework launched")
	return f, nil
}

// Tick advances the world by one tick, removing entities that finished.
func (w *World) Tick() {
	w.mu.Lock()
	w.currentTick++
	w.mu.Unlock()

	for _, e := range w.Entities() {
		t, ok := e.(Ticker)
		if !ok {
			continue
		}
		if t.Tick() {
			w.RemoveEntity(e.RuntimeID())
		}
	}
}

// CurrentTick returns the number of ticks the world has gone through.
func (w *World) CurrentTick() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentTick
}

// Run ticks the world at TickRate until the context is cancelled.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	w.logger.Info().Int("tps", TickRate).Msg("world started ticking")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Close closes all entities in the world.
func (w *World) Close() error {
	w.mu.Lock()
	w.closed = true
	entities := w.entities
	w.entities = make(map[uint64]Entity)
	w.mu.Unlock()

	var errs []error
	for _, e := range entities {
		errs = append(errs, e.Close())
	}
	return errors.Join(errs...)
}
