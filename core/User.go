/*
File Name:  User.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import "net/netip"

// addPeer inserts p into both the peer set and the address index,
// replacing any prior entry bound to the same address.
func (s *Session) addPeer(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byAddr[p.Addr]; ok {
		delete(s.peers, old)
	}
	s.peers[p] = struct{}{}
	s.byAddr[p.Addr] = p
}

// removePeer removes whatever peer is bound to addr, if any, from both
// the peer set and the address index. Removing an address with no
// bound peer is a no-op.
func (s *Session) removePeer(addr netip.AddrPort) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byAddr[addr]; ok {
		delete(s.peers, p)
		delete(s.byAddr, addr)
	}
}

// listPeers returns every currently connected peer.
func (s *Session) listPeers() []Peer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Peer, 0, len(s.peers))
	for p := range s.peers {
		out = append(out, p)
	}
	return out
}

func (s *Session) toggleChat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatOn = !s.chatOn
	return s.chatOn
}

func (s *Session) isChatOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatOn
}

// beginAwaitingResponse claims the single y/n-prompt slot. It returns
// false if some other handler is already prompting, enforcing the
// invariant that at most one handler awaits a response at a time.
func (s *Session) beginAwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaitingResponse {
		return false
	}
	s.awaitingResponse = true
	return true
}

func (s *Session) endAwaitingResponse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingResponse = false
}

func (s *Session) isAwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingResponse
}

// beginSend claims the single in-flight-send slot: at most one file:
// command runs at a time, matching the fact that nothing in the
// packet format disambiguates concurrent transfers.
func (s *Session) beginSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendingFile {
		return false
	}
	s.sendingFile = true
	return true
}

func (s *Session) endSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendingFile = false
}
