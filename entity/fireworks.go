package entity

import (
	"math/rand"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

const (
	// FireworksNetworkID is the legacy numeric network ID of a firework rocket.
	FireworksNetworkID = 72
	// FireworksIdentifier is the identifier sent to clients in the AddActor packet.
	FireworksIdentifier = "minecraft:fireworks_rocket"

	// actorEventFireworkParticles makes clients show the explosion of a firework.
	actorEventFireworkParticles = 25
)

// launchMotion is the velocity a firework rocket gets after being spawned.
var launchMotion = mgl32.Vec3{0, 2, 0}

// Fireworks is a firework rocket flying upwards until it explodes.
type Fireworks struct {
	*Entity

	flightDuration uint8
	lifetime       atomic.Int64
	age            atomic.Int64
}

// NewFireworks creates a firework rocket at the position. The flight duration is the number of
// gunpowder used to craft it and lengthens the lifetime of the rocket.
func NewFireworks(pos mgl32.Vec3, flightDuration uint8) *Fireworks {
	e := New(pos)
	e.SetGravity(0)
	f := &Fireworks{
		Entity:         e,
		flightDuration: flightDuration,
	}
	f.lifetime.Store(10*(int64(flightDuration)+1) + int64(rand.Intn(6)+rand.Intn(7)))
	return f
}

// Name ...
func (f *Fireworks) Name() string {
	return "Firework"
}

// FlightDuration returns the flight duration the firework was created with.
func (f *Fireworks) FlightDuration() uint8 {
	return f.flightDuration
}

// Lifetime returns the number of ticks after which the firework explodes.
func (f *Fireworks) Lifetime() int64 {
	return f.lifetime.Load()
}

// SetLifetime overrides the number of ticks after which the firework explodes.
func (f *Fireworks) SetLifetime(ticks int64) {
	f.lifetime.Store(ticks)
}

// SpawnTo sends the firework to the viewer and launches it upwards.
func (f *Fireworks) SpawnTo(v Viewer) error {
	spawned, err := f.SpawnWith(v, f.spawnPacket)
	if !spawned {
		return err
	}
	f.SetMotion(launchMotion)
	return nil
}

func (f *Fireworks) spawnPacket() packet.Packet {
	yaw, pitch := f.Rotation()
	return &packet.AddActor{
		EntityUniqueID:  f.UniqueID(),
		EntityRuntimeID: f.RuntimeID(),
		EntityType:      FireworksIdentifier,
		Position:        f.Position(),
		Velocity:        f.Motion(),
		Pitch:           pitch,
		Yaw:             yaw,
		HeadYaw:         yaw,
		BodyYaw:         yaw,
		EntityMetadata:  f.Metadata(),
	}
}

// Tick moves the firework along its motion. It returns true once the firework exploded and should
// be removed from the world.
func (f *Fireworks) Tick() bool {
	if f.Closed() {
		return true
	}
	age := f.age.Add(1)

	m := f.Motion()
	f.Move(f.Position().Add(m))
	if g := f.Gravity(); g != 0 {
		m[1] -= g
		f.SetMotion(m)
	}

	if age < f.lifetime.Load() {
		return false
	}
	f.Broadcast(&packet.ActorEvent{
		EntityRuntimeID: f.RuntimeID(),
		EventType:       actorEventFireworkParticles,
	})
	return true
}
