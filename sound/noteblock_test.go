package sound

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func TestNoteblockSoundEncode(t *testing.T) {
	tests := []struct {
		name      string
		sound     NoteblockSound
		pos       mgl32.Vec3
		wantBlock protocol.BlockPos
		wantType  int32
		wantData  int32
		wantExtra int32
	}{
		{
			name:      "zero value",
			sound:     NoteblockSound{},
			pos:       mgl32.Vec3{0.5, 64.5, 0.5},
			wantBlock: protocol.BlockPos{0, 64, 0},
		},
		{
			name:      "bass drum",
			sound:     NewNoteblockSound(InstrumentBassDrum, 12),
			pos:       mgl32.Vec3{10, 5, -3},
			wantBlock: protocol.BlockPos{10, 5, -3},
			wantType:  1,
			wantData:  12,
			wantExtra: 1<<8 | 12,
		},
		{
			name:      "negative coordinates floor",
			sound:     NewNoteblockSound(InstrumentBass, 24),
			pos:       mgl32.Vec3{-0.5, 3.9, -10.1},
			wantBlock: protocol.BlockPos{-1, 3, -11},
			wantType:  4,
			wantData:  24,
			wantExtra: 4<<8 | 24,
		},
		{
			name:      "pitch clamped on encode",
			sound:     NoteblockSound{Instrument: InstrumentClick, Pitch: 99},
			wantType:  2,
			wantData:  MaxPitch,
			wantExtra: 2<<8 | MaxPitch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pks := tt.sound.Encode(tt.pos)
			if len(pks) != 2 {
				t.Fatalf("Encode returned %d packets, want 2", len(pks))
			}

			block, ok := pks[0].(*packet.BlockEvent)
			if !ok {
				t.Fatalf("first packet is %T, want *packet.BlockEvent", pks[0])
			}
			if block.Position != tt.wantBlock {
				t.Errorf("BlockEvent.Position = %v, want %v", block.Position, tt.wantBlock)
			}
			if block.EventType != tt.wantType || block.EventData != tt.wantData {
				t.Errorf("BlockEvent = (%d, %d), want (%d, %d)", block.EventType, block.EventData, tt.wantType, tt.wantData)
			}

			snd, ok := pks[1].(*packet.LevelSoundEvent)
			if !ok {
				t.Fatalf("second packet is %T, want *packet.LevelSoundEvent", pks[1])
			}
			if snd.SoundType != packet.SoundEventNote {
				t.Errorf("SoundType = %d, want SoundEventNote", snd.SoundType)
			}
			if snd.Position != tt.pos {
				t.Errorf("LevelSoundEvent.Position = %v, want %v", snd.Position, tt.pos)
			}
			if snd.ExtraData != tt.wantExtra {
				t.Errorf("ExtraData = %#x, want %#x", snd.ExtraData, tt.wantExtra)
			}
		})
	}
}

func TestNewNoteblockSound(t *testing.T) {
	s := NewNoteblockSound(Instrument(42), -5)
	if s.Instrument != InstrumentPiano {
		t.Errorf("unknown instrument = %v, want piano", s.Instrument)
	}
	if s.Pitch != 0 {
		t.Errorf("negative pitch = %d, want 0", s.Pitch)
	}
}

func TestParseInstrument(t *testing.T) {
	for i := InstrumentPiano; i <= InstrumentBass; i++ {
		got, err := ParseInstrument(i.String())
		if err != nil {
			t.Fatalf("ParseInstrument(%q): %v", i.String(), err)
		}
		if got != i {
			t.Fatalf("ParseInstrument(%q) = %v, want %v", i.String(), got, i)
		}
	}
	if got, err := ParseInstrument(" Bass_Drum "); err != nil || got != InstrumentBassDrum {
		t.Fatalf("ParseInstrument is not case insensitive: %v, %v", got, err)
	}
	if _, err := ParseInstrument("banjo"); err == nil {
		t.Fatal("expected error for unknown instrument")
	}
}

func TestGenericSoundEncode(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	pks := GenericSound{Event: packet.SoundEventNote, ExtraData: 7}.Encode(pos)
	if len(pks) != 1 {
		t.Fatalf("Encode returned %d packets, want 1", len(pks))
	}
	snd, ok := pks[0].(*packet.LevelSoundEvent)
	if !ok || snd.SoundType != packet.SoundEventNote || snd.ExtraData != 7 || snd.Position != pos {
		t.Fatalf("unexpected packet %#v", pks[0])
	}
}
