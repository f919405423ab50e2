package sound

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Sound represents a sound that may be played in a world. It encodes to the packets that viewers
// near the position should receive in order to hear it.
type Sound interface {
	// Encode returns the packets that make up the sound played at the position.
	Encode(pos mgl32.Vec3) []packet.Packet
}

// GenericSound is a sound that maps directly onto a single level sound event.
type GenericSound struct {
	// Event is one of the packet.SoundEvent constants.
	Event uint32
	// ExtraData is passed to the client as is. Its meaning depends on the event.
	ExtraData int32
}

// Encode ...
func (s GenericSound) Encode(pos mgl32.Vec3) []packet.Packet {
	return []packet.Packet{&packet.LevelSoundEvent{
		SoundType:  s.Event,
		Position:   pos,
		ExtraData:  s.ExtraData,
		EntityType: ":",
	}}
}
