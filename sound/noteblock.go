package sound

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Instrument is the instrument a note block plays, decided by the block below it.
type Instrument int32

const (
	InstrumentPiano Instrument = iota
	InstrumentBassDrum
	InstrumentClick
	InstrumentTabour
	InstrumentBass
)

// MaxPitch is the highest pitch a note block can be tuned to. Pitch 0 is F#3 and every step up is
// one semitone.
const MaxPitch = 24

var instrumentNames = [...]string{
	InstrumentPiano:    "piano",
	InstrumentBassDrum: "bass_drum",
	InstrumentClick:    "click",
	InstrumentTabour:   "tabour",
	InstrumentBass:     "bass",
}

// String ...
func (i Instrument) String() string {
	if i < 0 || int(i) >= len(instrumentNames) {
		return fmt.Sprintf("Instrument(%d)", int32(i))
	}
	return instrumentNames[i]
}

// ParseInstrument returns the instrument with the name passed. Names are matched case
// insensitively, so "Bass_Drum" and "bass_drum" are the same instrument.
func ParseInstrument(name string) (Instrument, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range instrumentNames {
		if n == name {
			return Instrument(i), nil
		}
	}
	return InstrumentPiano, fmt.Errorf("unknown instrument %q", name)
}

// NoteblockSound is the chime of a note block being played. The zero value is a piano playing the
// lowest pitch.
type NoteblockSound struct {
	Instrument Instrument
	Pitch      int32
}

// NewNoteblockSound returns a note block sound, falling back to the piano for unknown instruments
// and clamping the pitch to [0, MaxPitch].
func NewNoteblockSound(instrument Instrument, pitch int32) NoteblockSound {
	if instrument < InstrumentPiano || instrument > InstrumentBass {
		instrument = InstrumentPiano
	}
	return NoteblockSound{Instrument: instrument, Pitch: min(max(pitch, 0), MaxPitch)}
}

// Encode returns a block event that animates the note block and the note sound itself.
func (s NoteblockSound) Encode(pos mgl32.Vec3) []packet.Packet {
	s = NewNoteblockSound(s.Instrument, s.Pitch)
	return []packet.Packet{
		&packet.BlockEvent{
			Position:  blockPos(pos),
			EventType: int32(s.Instrument),
			EventData: s.Pitch,
		},
		&packet.LevelSoundEvent{
			SoundType:  packet.SoundEventNote,
			Position:   pos,
			ExtraData:  int32(s.Instrument)<<8 | s.Pitch,
			EntityType: ":",
		},
	}
}

func blockPos(pos mgl32.Vec3) protocol.BlockPos {
	return protocol.BlockPos{
		int32(math.Floor(float64(pos[0]))),
		int32(math.Floor(float64(pos[1]))),
		int32(math.Floor(float64(pos[2]))),
	}
}
