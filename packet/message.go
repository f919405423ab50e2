package packet

import (
	"bytes"
	"net"
	"sync"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

var msgPool = sync.Pool{
	New: func() any {
		return &Message{
			buffer: bytes.NewBuffer(make([]byte, 0, MaxPacketSize)),
			sender: nil,
		}
	},
}

// Message is a single datagram received from a sender, not yet decoded.
type Message struct {
	buffer *bytes.Buffer
	sender *net.UDPAddr
}

func NewMessage(buf []byte, sender *net.UDPAddr) *Message {
	msg := msgPool.Get().(*Message)
	msg.buffer.Write(buf)
	msg.sender = sender
	return msg
}

func (msg *Message) Sender() *net.UDPAddr {
	return msg.sender
}

// Decode reads the header and the packet from the message. The header is always returned, but ok is
// false if no packet is registered with the ID in the header. Malformed messages make the reader
// panic, so callers should recover.
func (msg *Message) Decode() (header *PacketHeader, pk Packet, ok bool) {
	reader := protocol.NewReader(msg.buffer, 0, true)
	header = &PacketHeader{}
	header.Marshal(reader)

	pk, ok = Find(header.PacketID)
	if !ok {
		return header, nil, false
	}
	pk.Decode(reader, header.Version)
	return header, pk, true
}

func (msg *Message) Dispose() {
	msg.sender = nil
	msg.buffer.Reset()
	msgPool.Put(msg)
}
