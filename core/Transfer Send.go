/*
File Name:  Transfer Send.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"fmt"
	"io"
	"log"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"github.com/duskline/meshcore/core/protocol"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// SendFile opens path, announces it to every connected peer, collects
// which peers answer they want it, then streams it to each interested
// peer concurrently.
func (s *Session) SendFile(path string) error {
	if !s.beginSend() {
		return fmt.Errorf("a transfer is already in progress")
	}
	defer s.endSend()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	totalChunks := uint32((info.Size() + chunkSize - 1) / chunkSize)
	filename := filepath.Base(path)
	meta := protocol.NewMetadata(filename, totalChunks)

	peers := s.listPeers()
	if len(peers) == 0 {
		s.notice("No Peer Connected")
		return nil
	}

	for _, p := range peers {
		if err := s.sendPacket(meta, p.Addr); err != nil {
			log.Printf("file: error broadcasting metadata to %s: %v", p.Name, err)
		}
	}

	interested := s.collectInterest(meta, peers)
	if len(interested) == 0 {
		s.notice("No Peer Responded")
		return nil
	}
	s.notice("%d peer(s) accepted the transfer", len(interested))

	var g errgroup.Group
	for _, p := range interested {
		p := p
		g.Go(func() error {
			return s.sendToPeer(path, filename, totalChunks, p)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.notice("Sending Completed")
	return nil
}

// collectInterest waits up to mdResCollectTimeout (restarted after
// every matching reply) for MdRes responses to meta, returning the
// subset of peers that answered.
func (s *Session) collectInterest(meta protocol.MetadataPacket, peers []Peer) []Peer {
	ch, unsubscribe := s.transfers.subscribe()
	defer unsubscribe()

	interested := make(map[netip.AddrPort]Peer)
	timer := time.NewTimer(mdResCollectTimeout)
	defer timer.Stop()

collect:
	for len(interested) < len(peers) {
		select {
		case ev := <-ch:
			res, ok := ev.Packet.(protocol.MdResPacket)
			if !ok || !res.Matches(meta) {
				continue
			}
			for _, p := range peers {
				if p.Addr == ev.Addr {
					interested[p.Addr] = p
				}
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(mdResCollectTimeout)

		case <-timer.C:
			break collect
		}
	}

	out := make([]Peer, 0, len(interested))
	for _, p := range interested {
		out = append(out, p)
	}
	return out
}

// sendToPeer streams path to peer with stop-and-wait acknowledgement:
// each chunk is sent at most maxSendRetries times in total (the first
// send plus maxSendRetries-1 retransmissions) before giving up on the
// whole transfer for that peer.
func (s *Session) sendToPeer(path, filename string, totalChunks uint32, peer Peer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ch, unsubscribe := s.transfers.subscribe()
	defer unsubscribe()

	bar := progressbar.DefaultBytes(int64(totalChunks)*chunkSize, "-> "+peer.Name)
	defer bar.Close()

	buf := make([]byte, chunkSize)
	index := uint32(1)
	retries := 0

	n, readErr := f.Read(buf)
	for n > 0 && retries < maxSendRetries {
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		chunk := protocol.NewFileChunk(filename, uint32(n), index, totalChunks, buf[:n])
		if err := s.sendPacket(chunk, peer.Addr); err != nil {
			log.Printf("file: error sending chunk %d to %s: %v", index, peer.Name, err)
		}

		if s.awaitAck(ch, peer.Addr, index+1, ackTimeout) {
			index++
			bar.Add64(int64(n))
			s.events.TransferProgress(peer.Name, filename, index-1, totalChunks)
			retries = 0
			n, readErr = f.Read(buf)
		} else {
			retries++
			if retries < maxSendRetries {
				s.notice("No ack for chunk %d from %s, retrying (%d/%d)", index, peer.Name, retries, maxSendRetries)
			}
		}
	}

	if retries >= maxSendRetries {
		return fmt.Errorf("transfer to %s abandoned after %d retries on chunk %d", peer.Name, maxSendRetries, index)
	}
	return nil
}

// awaitAck waits up to timeout for an Ack matching want from peer
// addr, ignoring any other event received within the same window.
func (s *Session) awaitAck(ch <-chan transferEvent, from netip.AddrPort, want uint32, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-ch:
			ack, ok := ev.Packet.(protocol.AckPacket)
			if ok && ev.Addr == from && ack.ChunkIndex == want {
				return true
			}
		case <-deadline:
			return false
		}
	}
}
