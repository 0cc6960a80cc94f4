package core

import (
	"net"
	"net/netip"
	"testing"
)

func newTestSession() *Session {
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6loopback, Port: 0})
	if err != nil {
		panic(err)
	}
	return NewSession("tester", conn, Events{})
}

func TestPeerTableCoherence(t *testing.T) {
	s := newTestSession()

	a1 := netip.MustParseAddrPort("[::1]:1111")
	a2 := netip.MustParseAddrPort("[::1]:2222")

	s.addPeer(Peer{Name: "alice", Addr: a1})
	s.addPeer(Peer{Name: "bob", Addr: a2})

	assertCoherent(t, s)

	// Re-adding the same address with a new name overwrites atomically.
	s.addPeer(Peer{Name: "alice2", Addr: a1})
	assertCoherent(t, s)

	found := false
	for _, p := range s.listPeers() {
		if p.Addr == a1 {
			found = true
			if p.Name != "alice2" {
				t.Errorf("expected overwritten name alice2, got %s", p.Name)
			}
		}
	}
	if !found {
		t.Fatalf("expected peer at %v to still be present", a1)
	}

	s.removePeer(a1)
	assertCoherent(t, s)
	for _, p := range s.listPeers() {
		if p.Addr == a1 {
			t.Fatalf("expected %v to be removed", a1)
		}
	}
}

func TestIdempotentDisconnect(t *testing.T) {
	s := newTestSession()
	unknown := netip.MustParseAddrPort("[::1]:9999")

	// Removing an address with no bound peer must be a no-op, twice.
	s.removePeer(unknown)
	s.removePeer(unknown)
	assertCoherent(t, s)
	if len(s.listPeers()) != 0 {
		t.Fatalf("expected no peers, got %d", len(s.listPeers()))
	}
}

func assertCoherent(t *testing.T, s *Session) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.peers) != len(s.byAddr) {
		t.Fatalf("peers (%d) and byAddr (%d) sizes diverge", len(s.peers), len(s.byAddr))
	}
	for p := range s.peers {
		if got, ok := s.byAddr[p.Addr]; !ok || got != p {
			t.Fatalf("byAddr[%v] = %v, want %v", p.Addr, got, p)
		}
	}
}

func TestAwaitingResponseMutualExclusion(t *testing.T) {
	s := newTestSession()

	if !s.beginAwaitingResponse() {
		t.Fatalf("expected first claim to succeed")
	}
	if s.beginAwaitingResponse() {
		t.Fatalf("expected second concurrent claim to fail")
	}

	s.endAwaitingResponse()
	if !s.beginAwaitingResponse() {
		t.Fatalf("expected claim to succeed again after release")
	}
}

func TestToggleChat(t *testing.T) {
	s := newTestSession()
	if s.isChatOn() {
		t.Fatalf("expected chat to start off")
	}
	if !s.toggleChat() {
		t.Fatalf("expected toggle to turn chat on")
	}
	if !s.isChatOn() {
		t.Fatalf("expected chat to read as on")
	}
	if s.toggleChat() {
		t.Fatalf("expected toggle to turn chat back off")
	}
}
