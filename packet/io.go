package packet

import "github.com/sandertv/gophertunnel/minecraft/protocol"

// Encodable is implemented by packets that can be written to a control client or server.
type Encodable interface {
	Encode(w *protocol.Writer)
}

// Decodable is implemented by packets that can be read back. The version is the one found in the
// header, so that packets sent by older clients can still be read.
type Decodable interface {
	Decode(r *protocol.Reader, version uint64)
}
