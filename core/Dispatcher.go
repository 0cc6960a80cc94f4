/*
File Name:  Dispatcher.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"net/netip"
	"time"

	"github.com/duskline/meshcore/core/protocol"
)

// dispatchLoop is the single reader of the socket. Every inbound
// datagram is decoded once here and routed to its handler; nothing
// else in the package ever reads from the socket directly.
func (s *Session) dispatchLoop() error {
	buf := make([]byte, protocol.MaxDatagramSize)

	for {
		n, addr, err := s.socket.ReadFromUDPAddrPort(buf)
		if err != nil {
			return err
		}

		raw := make([]byte, n)
		copy(raw, buf[:n])

		pkt, ok := protocol.Decode(raw)
		if !ok {
			continue
		}

		s.route(pkt, addr)
	}
}

func (s *Session) route(pkt protocol.Packet, addr netip.AddrPort) {
	switch p := pkt.(type) {
	case protocol.ChatPacket:
		s.events.ChatReceived(p.Username, p.Message, time.Unix(int64(p.Time), 0))

	case protocol.BindPacket:
		go s.handleBind(p, addr)

	case protocol.MetadataPacket:
		go s.receiveFile(p, addr)

	case protocol.MdResPacket, protocol.AckPacket, protocol.FilePacket:
		s.transfers.publish(transferEvent{Packet: pkt, Addr: addr})

	case protocol.DiscoveryPacket:
		// reserved; not currently routed.

	default:
		log.Printf("dispatch: unhandled packet type %T from %s", p, addr)
	}
}
