/*
File Name:  Events.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"net/netip"
	"time"
)

// Events lets a frontend observe structured Session activity without
// core depending on any rendering concern. Plain-text notices are
// delivered separately, through Session's output bus (see
// Session.Subscribe), since more than one observer may want them.
// Every field here defaults to a no-op when left nil.
type Events struct {
	PeerConnected    func(name string, addr netip.AddrPort)
	PeerDisconnected func(name string, addr netip.AddrPort)
	ChatReceived     func(username, message string, at time.Time)
	TransferProgress func(peerName, filename string, sent, total uint32)
}

func (e *Events) init() {
	if e.PeerConnected == nil {
		e.PeerConnected = func(string, netip.AddrPort) {}
	}
	if e.PeerDisconnected == nil {
		e.PeerDisconnected = func(string, netip.AddrPort) {}
	}
	if e.ChatReceived == nil {
		e.ChatReceived = func(string, string, time.Time) {}
	}
	if e.TransferProgress == nil {
		e.TransferProgress = func(string, string, uint32, uint32) {}
	}
}
