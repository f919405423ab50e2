package packet

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// PlayNote is sent to play a note block chime at a position in the world.
type PlayNote struct {
	Position   mgl32.Vec3
	Instrument uint8
	Pitch      uint8
}

func (*PlayNote) ID() uint64 {
	return IDPlayNote
}

func (pk *PlayNote) Encode(io *protocol.Writer) {
	pk.marshal(io)
}

func (pk *PlayNote) Decode(io *protocol.Reader, _ uint64) {
	pk.marshal(io)
}

func (pk *PlayNote) marshal(io protocol.IO) {
	io.Vec3(&pk.Position)
	io.Uint8(&pk.Instrument)
	io.Uint8(&pk.Pitch)
}
