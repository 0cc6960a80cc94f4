package core

import (
	"net/netip"
	"testing"
	"time"

	"github.com/duskline/meshcore/core/protocol"
)

func TestChunkHashRejection(t *testing.T) {
	fp := protocol.NewFileChunk("x.bin", 4, 1, 1, []byte("data"))

	if !chunkAccepted(fp, 1) {
		t.Fatalf("expected an untampered chunk at the right index to be accepted")
	}

	tampered := fp
	tampered.Data = []byte("DATA")
	if chunkAccepted(tampered, 1) {
		t.Fatalf("expected a chunk with mismatched hash to be rejected")
	}

	if chunkAccepted(fp, 2) {
		t.Fatalf("expected a chunk at the wrong index to be rejected")
	}
}

func TestStopAndWaitAdvancement(t *testing.T) {
	s := newTestSession()
	ch, unsubscribe := s.transfers.subscribe()
	defer unsubscribe()

	peerAddr := netip.MustParseAddrPort("[::1]:5555")
	otherAddr := netip.MustParseAddrPort("[::1]:6666")

	result := make(chan bool, 1)
	go func() {
		result <- s.awaitAck(ch, peerAddr, 2, 200*time.Millisecond)
	}()

	// Noise that must be ignored: wrong address, wrong chunk index.
	s.transfers.publish(transferEvent{Packet: protocol.AckPacket{ChunkIndex: 2}, Addr: otherAddr})
	s.transfers.publish(transferEvent{Packet: protocol.AckPacket{ChunkIndex: 1}, Addr: peerAddr})
	s.transfers.publish(transferEvent{Packet: protocol.AckPacket{ChunkIndex: 2}, Addr: peerAddr})

	if !<-result {
		t.Fatalf("expected the matching ack to be observed despite the noise")
	}
}

func TestStopAndWaitTimesOutWithoutMatch(t *testing.T) {
	s := newTestSession()
	ch, unsubscribe := s.transfers.subscribe()
	defer unsubscribe()

	peerAddr := netip.MustParseAddrPort("[::1]:5555")

	got := s.awaitAck(ch, peerAddr, 2, 50*time.Millisecond)
	if got {
		t.Fatalf("expected timeout with no matching ack to report false")
	}
}
