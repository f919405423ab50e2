package entity

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func TestNextRuntimeIDUnique(t *testing.T) {
	const n = 1000
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NextRuntimeID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, n)
	for id := range ids {
		if id == 0 {
			t.Fatal("NextRuntimeID returned 0")
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("runtime ID %d handed out twice", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSetMotionOnlyReachesViewers(t *testing.T) {
	e := New(mgl32.Vec3{})
	spawned, other := &recordingViewer{}, &recordingViewer{}
	if err := e.SpawnTo(spawned); err != nil {
		t.Fatalf("SpawnTo: %v", err)
	}

	e.SetMotion(mgl32.Vec3{1, 0, 0})

	if n := len(other.received()); n != 0 {
		t.Fatalf("non-viewer received %d packets", n)
	}
	pks := spawned.received()
	if len(pks) != 1 {
		t.Fatalf("viewer received %d packets, want 1", len(pks))
	}
	pk, ok := pks[0].(*packet.SetActorMotion)
	if !ok || pk.EntityRuntimeID != e.RuntimeID() || pk.Velocity != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("unexpected motion packet %#v", pks[0])
	}
}

func TestDespawnFrom(t *testing.T) {
	e := New(mgl32.Vec3{})
	v := &recordingViewer{}

	// Despawning from a viewer that never saw the entity sends nothing.
	if err := e.DespawnFrom(v); err != nil {
		t.Fatalf("DespawnFrom: %v", err)
	}
	if len(v.received()) != 0 {
		t.Fatal("RemoveActor sent to viewer the entity was never spawned to")
	}

	_ = e.SpawnTo(v)
	if err := e.DespawnFrom(v); err != nil {
		t.Fatalf("DespawnFrom: %v", err)
	}
	pks := v.received()
	if len(pks) != 1 {
		t.Fatalf("viewer received %d packets, want 1", len(pks))
	}
	if pk, ok := pks[0].(*packet.RemoveActor); !ok || pk.EntityUniqueID != e.UniqueID() {
		t.Fatalf("unexpected despawn packet %#v", pks[0])
	}
	if e.SpawnedTo(v) {
		t.Fatal("entity still spawned to viewer after DespawnFrom")
	}
}

func TestCloseDespawnsFromAllViewers(t *testing.T) {
	e := New(mgl32.Vec3{})
	viewers := []*recordingViewer{{}, {}, {}}
	for _, v := range viewers {
		_ = e.SpawnTo(v)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	for i, v := range viewers {
		pks := v.received()
		if len(pks) != 1 {
			t.Fatalf("viewer %d received %d packets, want 1", i, len(pks))
		}
		if _, ok := pks[0].(*packet.RemoveActor); !ok {
			t.Fatalf("viewer %d received %T, want *packet.RemoveActor", i, pks[0])
		}
	}
	if len(e.Viewers()) != 0 {
		t.Fatal("closed entity still has viewers")
	}
}

func TestMetadataIsCopied(t *testing.T) {
	e := New(mgl32.Vec3{})
	e.SetMetadata(1, "a")
	m := e.Metadata()
	m[1] = "b"
	if e.Metadata()[1] != "a" {
		t.Fatal("modifying the returned metadata changed the entity")
	}
}
