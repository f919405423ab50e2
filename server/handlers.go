package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net"

	"github.com/Nerahikada/BlueLight/packet"
	"github.com/Nerahikada/BlueLight/sound"
	"github.com/Nerahikada/BlueLight/world"
)

var (
	// ErrUnauthorized is returned by handlers when the passphrase in the header does not match.
	ErrUnauthorized = errors.New("invalid passphrase")
	// ErrUnsupportedVersion is returned for packets sent by a newer version of the control protocol.
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
)

// AuthHandler returns a handler that rejects packets without the correct passphrase. It should be
// the first handler added to the server.
func AuthHandler(passphrase string) PacketHandler {
	want := []byte(passphrase)
	return func(sender *net.UDPAddr, header *packet.PacketHeader, pk packet.Packet) error {
		if subtle.ConstantTimeCompare(header.Passphrase, want) != 1 {
			return ErrUnauthorized
		}
		if header.Version > packet.CurrentVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
		}
		return nil
	}
}

// WorldHandler returns a handler that carries out control packets in the world.
func WorldHandler(w *world.World) PacketHandler {
	return func(sender *net.UDPAddr, header *packet.PacketHeader, pk packet.Packet) error {
		switch pk := pk.(type) {
		case *packet.LaunchFirework:
			_, err := w.LaunchFirework(pk.Position, pk.FlightDuration)
			return err
		case *packet.PlayNote:
			w.PlaySound(pk.Position, sound.NewNoteblockSound(sound.Instrument(pk.Instrument), int32(pk.Pitch)))
			return nil
		default:
			return fmt.Errorf("no world action for packet %T", pk)
		}
	}
}
