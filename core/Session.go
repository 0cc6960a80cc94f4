/*
File Name:  Session.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"fmt"
	"net"
	"net/netip"
	"sync"

	"github.com/duskline/meshcore/core/protocol"
	"github.com/google/uuid"
)

// Session is the aggregate root tying together the shared UDP socket,
// peer table, and the chat/binding/transfer handlers that run over it.
// A frontend constructs one Session, starts Run in its own goroutine,
// and feeds typed lines into HandleLine.
type Session struct {
	Name string

	socket *net.UDPConn
	events Events

	mu               sync.Mutex
	peers            map[Peer]struct{}
	byAddr           map[netip.AddrPort]Peer
	chatOn           bool
	awaitingResponse bool
	sendingFile      bool

	responses *broadcast[string]
	transfers *broadcast[transferEvent]
	output    *outputBus
}

// transferEvent is one inbound Ack, MdRes, or File packet published by
// the dispatcher for whichever per-transfer task is waiting on it.
type transferEvent struct {
	Packet protocol.Packet
	Addr   netip.AddrPort
}

// NewSession wires a Session around an already-bound UDP socket.
func NewSession(name string, socket *net.UDPConn, events Events) *Session {
	events.init()

	return &Session{
		Name:      name,
		socket:    socket,
		events:    events,
		peers:     make(map[Peer]struct{}),
		byAddr:    make(map[netip.AddrPort]Peer),
		responses: newBroadcast[string](),
		transfers: newBroadcast[transferEvent](),
		output:    newOutputBus(),
	}
}

// Subscribe registers a new observer of plain-text notices (command
// feedback, connection/disconnection lines, transfer status). Call
// Unsubscribe with the returned id when the observer goes away.
func (s *Session) Subscribe() (uuid.UUID, <-chan string) {
	return s.output.subscribe()
}

// Unsubscribe removes an observer previously registered with Subscribe.
func (s *Session) Unsubscribe(id uuid.UUID) {
	s.output.unsubscribe(id)
}

// Run starts the dispatcher loop and blocks until the socket is closed
// or a fatal read error occurs. Run it in its own goroutine.
func (s *Session) Run() error {
	return s.dispatchLoop()
}

// LocalAddr returns the address the session's socket is bound to.
func (s *Session) LocalAddr() netip.AddrPort {
	return s.socket.LocalAddr().(*net.UDPAddr).AddrPort()
}

func (s *Session) notice(format string, args ...interface{}) {
	s.output.publish(fmt.Sprintf(format, args...))
}

func (s *Session) sendPacket(p protocol.Packet, to netip.AddrPort) error {
	_, err := s.socket.WriteToUDPAddrPort(protocol.Encode(p), to)
	return err
}
