/*
File Name:  Transfer Receive.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"github.com/duskline/meshcore/core/protocol"
	"github.com/schollz/progressbar/v3"
)

// receiveFile handles one inbound transfer announced by meta from
// addr: prompts for consent, then receives chunks with stop-and-wait
// acknowledgement, writing each verified chunk to a file named after
// meta's basename in the current working directory.
func (s *Session) receiveFile(meta protocol.MetadataPacket, from netip.AddrPort) {
	if !s.promptFileConsent(meta.Filename) {
		s.notice("Connection Denied")
		return
	}

	if err := s.sendPacket(protocol.NewMdRes(meta), from); err != nil {
		log.Printf("file: error sending MdRes: %v", err)
	}

	f, err := os.Create(filepath.Base(meta.Filename))
	if err != nil {
		s.notice("Error creating file: %v", err)
		return
	}
	defer f.Close()

	if meta.TotalChunks == 0 {
		s.notice("Received file %s", meta.Filename)
		return
	}

	ch, unsubscribe := s.transfers.subscribe()
	defer unsubscribe()

	bar := progressbar.DefaultBytes(int64(meta.TotalChunks)*chunkSize, "<- "+meta.Filename)
	defer bar.Close()

	peerName := from.String()
	s.mu.Lock()
	if p, ok := s.byAddr[from]; ok {
		peerName = p.Name
	}
	s.mu.Unlock()

	index := uint32(1)
	retries := 0

	for retries < maxReceiveRetries {
		w := s.awaitFileChunk(ch, from, chunkWaitTimeout)

		switch {
		case w.timedOut:
			retries++
			if retries < maxReceiveRetries {
				s.notice("Receiving window timed out for chunk %d, retrying (%d/%d)", index, retries, maxReceiveRetries)
			}

		case w.isFile && chunkAccepted(w.fp, index):
			if _, werr := f.Write(w.fp.Data); werr != nil {
				s.notice("Error writing file: %v", werr)
				retries++
				continue // matches a write failure: ack is skipped this round
			}
			index++
			bar.Add64(int64(len(w.fp.Data)))
			s.events.TransferProgress(peerName, meta.Filename, index-1, meta.TotalChunks)

		default:
			// wrong chunk index, failed hash verification, or an
			// unrelated event: next-expected index is unchanged and no
			// retry is charged.
		}

		if err := s.sendPacket(protocol.AckPacket{ChunkIndex: index}, from); err != nil {
			log.Printf("file: error sending ack for chunk %d: %v", index, err)
		}

		if index > meta.TotalChunks {
			s.notice("Received file %s", meta.Filename)
			return
		}
	}

	s.notice("Transfer of %s abandoned after %d retries", meta.Filename, maxReceiveRetries)
}

// chunkAccepted reports whether fp is the chunk the receiver is
// currently expecting and its data hash verifies. A chunk failing
// either test is never counted as received.
func chunkAccepted(fp protocol.FilePacket, expected uint32) bool {
	return fp.ChunkIndex == expected && fp.VerifyChunk()
}

// fileWait is the outcome of one awaitFileChunk call.
type fileWait struct {
	timedOut bool
	fp       protocol.FilePacket
	isFile   bool
}

func (s *Session) awaitFileChunk(ch <-chan transferEvent, from netip.AddrPort, timeout time.Duration) fileWait {
	select {
	case ev := <-ch:
		if ev.Addr != from {
			return fileWait{}
		}
		fp, ok := ev.Packet.(protocol.FilePacket)
		return fileWait{fp: fp, isFile: ok}
	case <-time.After(timeout):
		return fileWait{timedOut: true}
	}
}

// promptFileConsent runs the single-shot y/n prompt for an incoming
// file transfer: one attempt, fileConsentTimeout long, no retry loop.
func (s *Session) promptFileConsent(filename string) bool {
	if !s.beginAwaitingResponse() {
		s.notice("Busy handling another request, denying file %s", filename)
		return false
	}
	defer s.endAwaitingResponse()

	ch, unsubscribe := s.responses.subscribe()
	defer unsubscribe()

	s.notice("File sending req: %s [y/n] -> ", filename)

	select {
	case line := <-ch:
		return firstCharLower(line) == "y"
	case <-time.After(fileConsentTimeout):
		return false
	}
}
