/*
File Name:  Chat.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"strings"
	"time"

	"github.com/duskline/meshcore/core/protocol"
)

// handleChatLine broadcasts line to every connected peer as a Chat
// packet, best effort, when chat mode is on.
func (s *Session) handleChatLine(line string) {
	if !s.isChatOn() {
		s.notice("Not a feature")
		return
	}

	peers := s.listPeers()
	if len(peers) == 0 {
		s.notice("No peer Connected")
		return
	}

	chat := protocol.ChatPacket{
		Username: s.Name,
		Message:  strings.TrimSpace(line),
		Time:     uint64(time.Now().Unix()),
	}

	for _, p := range peers {
		if err := s.sendPacket(chat, p.Addr); err != nil {
			log.Printf("chat: error sending to %s: %v", p.Name, err)
		}
	}
}
