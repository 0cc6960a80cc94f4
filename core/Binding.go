/*
File Name:  Binding.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"net/netip"
	"strings"
	"time"

	"github.com/duskline/meshcore/core/protocol"
)

const (
	bindingPromptTimeout = 5 * time.Second
	bindingMaxAttempts   = 3
)

// handleBind routes an inbound Bind packet to the request or response
// handler depending on its Req field.
func (s *Session) handleBind(p protocol.BindPacket, addr netip.AddrPort) {
	if p.Req {
		s.handleBindRequest(p, addr)
	} else {
		s.handleBindResponse(p, addr)
	}
}

func (s *Session) handleBindRequest(p protocol.BindPacket, addr netip.AddrPort) {
	if !p.Accept {
		// remote-initiated disconnect: mirror the transition to unknown.
		s.removePeer(addr)
		s.events.PeerDisconnected(p.Name, addr)
		s.notice("Peer disconnected: %s", p.Name)

		if err := s.sendPacket(protocol.BindPacket{Req: false, Accept: false, Name: s.Name}, addr); err != nil {
			log.Printf("binding: error sending disconnect response: %v", err)
		}
		return
	}

	accepted := s.promptBinding(p.Name)
	if accepted {
		s.addPeer(Peer{Name: p.Name, Addr: addr})
		s.events.PeerConnected(p.Name, addr)
		s.notice("Peer connected: %s", p.Name)
	} else {
		s.notice("Connection Denied")
	}

	if err := s.sendPacket(protocol.BindPacket{Req: false, Accept: accepted, Name: s.Name}, addr); err != nil {
		log.Printf("binding: error sending binding response: %v", err)
	}
}

func (s *Session) handleBindResponse(p protocol.BindPacket, addr netip.AddrPort) {
	if p.Accept {
		s.addPeer(Peer{Name: p.Name, Addr: addr})
		s.events.PeerConnected(p.Name, addr)
		s.notice("Connected to %s", p.Name)
	} else {
		s.removePeer(addr)
		s.events.PeerDisconnected(p.Name, addr)
		s.notice("Peer disconnected: %s", p.Name)
	}
}

// promptBinding runs the interactive y/n handshake prompt for an
// incoming connect request: up to bindingMaxAttempts attempts, each
// waiting up to bindingPromptTimeout for an answer. An ambiguous
// answer or a timeout both consume an attempt; exhausting every
// attempt denies the request.
func (s *Session) promptBinding(remoteName string) bool {
	if !s.beginAwaitingResponse() {
		s.notice("Busy handling another request, denying connection from %s", remoteName)
		return false
	}
	defer s.endAwaitingResponse()

	ch, unsubscribe := s.responses.subscribe()
	defer unsubscribe()

	s.notice("Connection req from %s : [y/n] -> ", remoteName)

	for attempt := 1; attempt <= bindingMaxAttempts; attempt++ {
		select {
		case line := <-ch:
			switch firstCharLower(line) {
			case "y":
				return true
			case "n":
				return false
			}
		case <-time.After(bindingPromptTimeout):
		}

		if attempt < bindingMaxAttempts {
			s.notice("Something went wrong, try again: [y/n] -> ")
		}
	}

	return false
}

func firstCharLower(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return strings.ToLower(line[:1])
}
