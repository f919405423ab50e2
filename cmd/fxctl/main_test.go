package main

import (
	"testing"

	"github.com/Nerahikada/BlueLight/packet"
	"github.com/go-gl/mathgl/mgl32"
)

func TestParseCommand(t *testing.T) {
	pk, err := parseCommand([]string{"firework", "1", "80", "-2.5", "3"})
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	want := packet.LaunchFirework{Position: mgl32.Vec3{1, 80, -2.5}, FlightDuration: 3}
	if got := pk.(*packet.LaunchFirework); *got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	pk, err = parseCommand([]string{"note", "0", "64", "0", "bass", "12"})
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	note := packet.PlayNote{Position: mgl32.Vec3{0, 64, 0}, Instrument: 4, Pitch: 12}
	if got := pk.(*packet.PlayNote); *got != note {
		t.Fatalf("got %+v, want %+v", got, note)
	}

	for _, args := range [][]string{
		nil,
		{"firework", "1", "2"},
		{"note", "0", "0", "0", "banjo"},
		{"note", "0", "0", "0", "piano", "25"},
		{"explode"},
	} {
		if _, err := parseCommand(args); err == nil {
			t.Fatalf("parseCommand(%q) succeeded, want error", args)
		}
	}
}
