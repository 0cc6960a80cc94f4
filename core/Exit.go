/*
File Name:  Exit.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"time"

	"github.com/duskline/meshcore/core/protocol"
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitErrorStun       = 1
	ExitErrorSocketBind = 2
	ExitErrorNotIPv6    = 3
)

// Shutdown disconnects from every connected peer before returning,
// best effort, bounded by grace so a slow or unreachable peer cannot
// hang process exit indefinitely.
func (s *Session) Shutdown(grace time.Duration) {
	peers := s.listPeers()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for _, p := range peers {
			if err := s.sendPacket(protocol.BindPacket{Req: true, Accept: false, Name: s.Name}, p.Addr); err != nil {
				log.Printf("shutdown: error notifying %s: %v", p.Name, err)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(grace):
	}
}
