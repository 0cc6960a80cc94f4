/*
File Name:  Commands.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import (
	"log"
	"strings"

	"github.com/duskline/meshcore/core/addr"
	"github.com/duskline/meshcore/core/protocol"
)

// HandleLine feeds one line typed at the terminal into the session.
// While a handler is awaiting a y/n answer, every line is delivered to
// it instead of being parsed as a command.
func (s *Session) HandleLine(line string) {
	if s.isAwaitingResponse() {
		s.responses.publish(line)
		return
	}

	cmd, arg, hasColon := strings.Cut(line, ":")
	if !hasColon {
		s.handleChatLine(line)
		return
	}

	switch cmd {
	case "con":
		s.handleConnect(arg)
	case "dis":
		s.handleDisconnect(arg)
	case "ls":
		s.handleList()
	case "chat":
		s.handleToggleChat()
	case "file":
		s.handleFileCommand(arg)
	case "help":
		s.notice("%s", helpText)
	default:
		s.notice("Not implemented")
	}
}

const helpText = `Available commands:
  con:<address>  connect to a peer using its base58 address
  dis:<name>     disconnect from a connected peer by name
  ls:            list connected peers
  chat:          toggle chat mode on/off
  file:<path>    send a file to every connected peer (quote paths with spaces)
  help:          show this message`

func (s *Session) handleConnect(arg string) {
	target, err := addr.Decode(strings.TrimSpace(arg))
	if err != nil {
		s.notice("Error parsing the ip addrs")
		return
	}

	if err := s.sendPacket(protocol.BindPacket{Req: true, Accept: true, Name: s.Name}, target); err != nil {
		log.Printf("connect: error sending request: %v", err)
	}
}

func (s *Session) handleDisconnect(arg string) {
	target := strings.ToLower(strings.TrimSpace(arg))

	for _, p := range s.listPeers() {
		if strings.ToLower(p.Name) != target {
			continue
		}
		s.removePeer(p.Addr)
		if err := s.sendPacket(protocol.BindPacket{Req: true, Accept: false, Name: s.Name}, p.Addr); err != nil {
			log.Printf("disconnect: error sending request: %v", err)
		}
	}
}

func (s *Session) handleList() {
	peers := s.listPeers()
	if len(peers) == 0 {
		s.notice("No Peer Connected")
		return
	}
	for _, p := range peers {
		s.notice("%s -> Port: %d", p.Name, p.Addr.Port())
	}
}

func (s *Session) handleToggleChat() {
	if s.toggleChat() {
		s.notice("Chat Started")
	} else {
		s.notice("Chat Stopped")
	}
}

func (s *Session) handleFileCommand(arg string) {
	path := ParseFileCommand(arg)
	go func() {
		if err := s.SendFile(path); err != nil {
			s.notice("Error in File handling, %v", err)
		}
	}()
}

// ParseFileCommand strips one layer of matching quotes (single or
// double) surrounding a file: command argument, preserving any inner
// quote characters. An argument without a matching outer pair is only
// trimmed of surrounding whitespace.
func ParseFileCommand(arg string) string {
	s := strings.TrimSpace(arg)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
