// Command fxctl sends control packets to a running BlueLight server.
//
//	fxctl -addr 127.0.0.1:19133 -pass secret firework 0 80 0 2
//	fxctl -addr 127.0.0.1:19133 -pass secret note 0 64 0 bass_drum 12
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/Nerahikada/BlueLight/packet"
	"github.com/Nerahikada/BlueLight/sound"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:19133", "address of the control server")
	pass := flag.String("pass", os.Getenv("BLUELIGHT_PASSPHRASE"), "control passphrase")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	pk, err := parseCommand(flag.Args())
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid command")
	}
	to, err := net.ResolveUDPAddr("udp", *addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", *addr).Msg("unable to resolve address")
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to open socket")
	}
	defer conn.Close()

	if err := packet.Send(conn, to, &packet.PacketHeader{Passphrase: []byte(*pass)}, pk); err != nil {
		logger.Fatal().Err(err).Msg("unable to send packet")
	}
	logger.Info().Uint64("packetID", pk.ID()).Str("addr", to.String()).Msg("packet sent")
}

func parseCommand(args []string) (packet.Packet, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: fxctl firework x y z [flight] | note x y z [instrument] [pitch]")
	}
	switch args[0] {
	case "firework":
		if len(args) < 4 {
			return nil, errors.New("firework needs a position")
		}
		pos, err := parsePosition(args[1:4])
		if err != nil {
			return nil, err
		}
		pk := &packet.LaunchFirework{Position: pos, FlightDuration: 1}
		if len(args) > 4 {
			flight, err := strconv.ParseUint(args[4], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("flight duration: %w", err)
			}
			pk.FlightDuration = uint8(flight)
		}
		return pk, nil
	case "note":
		if len(args) < 4 {
			return nil, errors.New("note needs a position")
		}
		pos, err := parsePosition(args[1:4])
		if err != nil {
			return nil, err
		}
		pk := &packet.PlayNote{Position: pos}
		if len(args) > 4 {
			instrument, err := sound.ParseInstrument(args[4])
			if err != nil {
				return nil, err
			}
			pk.Instrument = uint8(instrument)
		}
		if len(args) > 5 {
			pitch, err := strconv.ParseUint(args[5], 10, 8)
			if err != nil || pitch > sound.MaxPitch {
				return nil, fmt.Errorf("pitch must be between 0 and %d", sound.MaxPitch)
			}
			pk.Pitch = uint8(pitch)
		}
		return pk, nil
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

func parsePosition(args []string) (mgl32.Vec3, error) {
	var pos mgl32.Vec3
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return pos, fmt.Errorf("coordinate %q: %w", s, err)
		}
		pos[i] = float32(f)
	}
	return pos, nil
}
