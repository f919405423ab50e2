package packet

import (
	"fmt"
	"sort"
)

// PacketFunc returns a new, empty packet of a single type.
type PacketFunc func() Packet

var pkPool = make(map[uint64]PacketFunc)

func init() {
	Register(func() Packet { return &LaunchFirework{} })
	Register(func() Packet { return &PlayNote{} })
}

// Register makes a packet type decodable by Message.Decode. Registering two packets with the same ID
// panics.
func Register(pk PacketFunc) {
	id := pk().ID()
	if _, ok := pkPool[id]; ok {
		panic(fmt.Sprintf("packet with ID %d registered twice", id))
	}
	pkPool[id] = pk
}

// Find returns a new packet for the ID, or false if no packet was registered with it.
func Find(id uint64) (Packet, bool) {
	pkFunc, ok := pkPool[id]
	if !ok {
		return nil, false
	}
	return pkFunc(), true
}

// Registered returns the IDs of all registered packets in ascending order.
func Registered() []uint64 {
	ids := make([]uint64, 0, len(pkPool))
	for id := range pkPool {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
