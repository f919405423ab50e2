package entity

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// ErrClosed is returned when attempting to spawn an entity that has already been closed.
var ErrClosed = errors.New("entity is closed")

// Viewer is anything that is able to receive packets describing entities. A *minecraft.Conn
// satisfies this interface.
type Viewer interface {
	WritePacket(pk packet.Packet) error
}

var runtimeIDs atomic.Uint64

// NextRuntimeID returns a new runtime ID that is not yet in use. The first ID returned is 1.
func NextRuntimeID() uint64 {
	return runtimeIDs.Add(1)
}

// Entity holds the state shared by every entity in the world and keeps track of the viewers it
// has been spawned to. Specific entity types embed it and add their own spawn packet.
type Entity struct {
	mu sync.RWMutex
	// spawnMu is held while a viewer is spawned to or despawned from, so that the spawn packet write
	// and the viewer set never disagree.
	spawnMu sync.Mutex

	runtimeID uint64
	uniqueID  int64

	pos    mgl32.Vec3
	motion mgl32.Vec3
	yaw    float32
	pitch  float32
	// gravity is the downwards acceleration applied to the motion every tick.
	gravity float32

	metadata map[uint32]any
	viewers  map[Viewer]struct{}
	closed   bool
}

// New creates a base entity at the given position with a freshly allocated runtime ID. The unique
// ID mirrors the runtime ID.
func New(pos mgl32.Vec3) *Entity {
	id := NextRuntimeID()
	return &Entity{
		runtimeID: id,
		uniqueID:  int64(id),
		pos:       pos,
		metadata:  make(map[uint32]any),
		viewers:   make(map[Viewer]struct{}),
	}
}

// RuntimeID returns the runtime ID of the entity.
func (e *Entity) RuntimeID() uint64 {
	return e.runtimeID
}

// UniqueID returns the unique ID of the entity.
func (e *Entity) UniqueID() int64 {
	return e.uniqueID
}

// Position returns the current position of the entity.
func (e *Entity) Position() mgl32.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pos
}

// Move sets the position of the entity. Viewers are not notified.
func (e *Entity) Move(pos mgl32.Vec3) {
	e.mu.Lock()
	e.pos = pos
	e.mu.Unlock()
}

// Motion returns the current velocity of the entity.
func (e *Entity) Motion() mgl32.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.motion
}

// SetMotion updates the velocity of the entity and sends it to every viewer the entity has been
// spawned to.
func (e *Entity) SetMotion(m mgl32.Vec3) {
	e.mu.Lock()
	e.motion = m
	e.mu.Unlock()

	e.broadcast(&packet.SetActorMotion{
		EntityRuntimeID: e.runtimeID,
		Velocity:        m,
	})
}

// Rotation returns the yaw and pitch of the entity.
func (e *Entity) Rotation() (yaw, pitch float32) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.yaw, e.pitch
}

// SetRotation sets the yaw and pitch of the entity.
func (e *Entity) SetRotation(yaw, pitch float32) {
	e.mu.Lock()
	e.yaw, e.pitch = yaw, pitch
	e.mu.Unlock()
}

// Gravity returns the downwards acceleration of the entity per tick.
func (e *Entity) Gravity() float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gravity
}

// SetGravity sets the downwards acceleration of the entity per tick.
func (e *Entity) SetGravity(g float32) {
	e.mu.Lock()
	e.gravity = g
	e.mu.Unlock()
}

// SetMetadata sets a single metadata property. The change is included in the next spawn packet.
func (e *Entity) SetMetadata(key uint32, value any) {
	e.mu.Lock()
	e.metadata[key] = value
	e.mu.Unlock()
}

// Metadata returns a copy of the metadata properties of the entity.
func (e *Entity) Metadata() map[uint32]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m := make(map[uint32]any, len(e.metadata))
	for k, v := range e.metadata {
		m[k] = v
	}
	return m
}

// SpawnTo marks the entity as spawned to the viewer. Entity types with their own spawn packet use
// SpawnWith instead. Spawning to a viewer twice has no effect.
func (e *Entity) SpawnTo(v Viewer) error {
	_, err := e.SpawnWith(v, nil)
	return err
}

// SpawnWith writes the packet returned by spawnPacket to the viewer and marks the entity as spawned
// to it. It returns false if the entity was already spawned to the viewer or the write failed. A
// nil spawnPacket only marks the viewer.
func (e *Entity) SpawnWith(v Viewer, spawnPacket func() packet.Packet) (bool, error) {
	e.spawnMu.Lock()
	defer e.spawnMu.Unlock()

	e.mu.RLock()
	_, spawned := e.viewers[v]
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return false, ErrClosed
	}
	if spawned {
		return false, nil
	}
	if spawnPacket != nil {
		if err := v.WritePacket(spawnPacket()); err != nil {
			return false, err
		}
	}

	e.mu.Lock()
	e.viewers[v] = struct{}{}
	e.mu.Unlock()
	return true, nil
}

// SpawnedTo checks if the entity was spawned to the viewer.
func (e *Entity) SpawnedTo(v Viewer) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.viewers[v]
	return ok
}

// Viewers returns all viewers that the entity is currently spawned to.
func (e *Entity) Viewers() []Viewer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	viewers := make([]Viewer, 0, len(e.viewers))
	for v := range e.viewers {
		viewers = append(viewers, v)
	}
	return viewers
}

// DespawnFrom removes the entity from the view of the viewer.
func (e *Entity) DespawnFrom(v Viewer) error {
	e.spawnMu.Lock()
	defer e.spawnMu.Unlock()
	return e.despawnFrom(v)
}

func (e *Entity) despawnFrom(v Viewer) error {
	e.mu.Lock()
	if _, ok := e.viewers[v]; !ok {
		e.mu.Unlock()
		return nil
	}
	delete(e.viewers, v)
	e.mu.Unlock()

	return v.WritePacket(&packet.RemoveActor{EntityUniqueID: e.uniqueID})
}

// Broadcast writes a packet to every viewer of the entity.
func (e *Entity) Broadcast(pk packet.Packet) {
	e.broadcast(pk)
}

// Close despawns the entity from all of its viewers. Closed entities cannot be spawned again.
func (e *Entity) Close() error {
	e.spawnMu.Lock()
	defer e.spawnMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	var errs []error
	for _, v := range e.Viewers() {
		errs = append(errs, e.despawnFrom(v))
	}
	return errors.Join(errs...)
}

// Closed checks if the entity was closed.
func (e *Entity) Closed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

func (e *Entity) broadcast(pk packet.Packet) {
	for _, v := range e.Viewers() {
		// Viewers that fail to receive the packet are removed by whoever owns their connection.
		_ = v.WritePacket(pk)
	}
}
