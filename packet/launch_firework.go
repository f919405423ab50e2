package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// LaunchFirework is sent to launch a firework rocket at a position in the world.
type LaunchFirework struct {
	// Position is the position the rocket starts flying from.
	Position mgl32.Vec3
	// FlightDuration is the amount of gunpowder the rocket was crafted with. Longer flights
	// explode higher.
	FlightDuration uint8
}

func (*LaunchFirework) ID() uint64 {
	return IDLaunchFirework
}

func (pk *LaunchFirework) Encode(io *protocol.Writer) {
	pk.marshal(io)
}

func (pk *LaunchFirework) Decode(io *protocol.Reader, _ uint64) {
	pk.marshal(io)
}

func (pk *LaunchFirework) marshal(io protocol.IO) {
	io.Vec3(&pk.Position)
	io.Uint8(&pk.FlightDuration)
}
