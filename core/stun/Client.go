/*
File Name:  Client.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner

Package stun implements a minimal, one-shot RFC 5389 Binding client:
just enough to discover the public socket address of a locally bound
UDP socket via XOR-MAPPED-ADDRESS. No other STUN attributes are
requested or interpreted, and the transaction id is not matched
against the response — both are safe to add later without changing
observable behavior.
*/
package stun

import (
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"net"
	"net/netip"
)

// Server is the well-known public STUN server used for discovery.
const Server = "stun.l.google.com:19302"

const magicCookie uint32 = 0x2112A442

// socket is the minimal surface Client needs from a UDP connection,
// satisfied by *net.UDPConn and by fakes in tests.
type socket interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
}

// ResolveIPv6 resolves Server and returns its first IPv6 result. The
// core assumes IPv6 public reachability; an implementation finding no
// IPv6 answer should treat that as a fatal startup error.
func ResolveIPv6(ctx context.Context) (*net.UDPAddr, error) {
	var resolver net.Resolver
	addrs, err := resolver.LookupIPAddr(ctx, hostOf(Server))
	if err != nil {
		return nil, err
	}

	port := portOf(Server)
	for _, a := range addrs {
		if ip := a.IP.To16(); ip != nil && a.IP.To4() == nil {
			return &net.UDPAddr{IP: ip, Port: port}, nil
		}
	}

	return nil, errors.New("stun: no IPv6 address found for " + Server)
}

// GetPublicAddr sends a single STUN Binding request over sock to
// stunAddr and parses the reflexive address from the first reply
// datagram received on sock. The caller owns sock and its read
// deadline/timeout policy.
func GetPublicAddr(sock socket, stunAddr net.Addr) (netip.AddrPort, error) {
	req := buildRequest()
	if _, err := sock.WriteTo(req, stunAddr); err != nil {
		return netip.AddrPort{}, err
	}

	buf := make([]byte, 128)
	n, _, err := sock.ReadFrom(buf)
	if err != nil {
		return netip.AddrPort{}, err
	}

	ap, ok := ParseBindingResponse(buf[:n])
	if !ok {
		return netip.AddrPort{}, errors.New("stun: failed to parse binding response")
	}

	return ap, nil
}

// buildRequest builds a 20-byte RFC 5389 Binding request: type 0x0001,
// length 0x0000 (no attributes), the magic cookie, and 12 random
// transaction-id bytes.
func buildRequest() []byte {
	req := make([]byte, 20)
	binary.BigEndian.PutUint16(req[0:2], 0x0001)
	binary.BigEndian.PutUint16(req[2:4], 0x0000)
	binary.BigEndian.PutUint32(req[4:8], magicCookie)
	for i := 8; i < 20; i++ {
		req[i] = byte(rand.Intn(256))
	}
	return req
}

// ParseBindingResponse parses exactly one XOR-MAPPED-ADDRESS attribute
// located at offset 20 of a STUN Binding response. Family 0x02 yields
// an IPv6 address, family 0x01 an IPv4 one (kept for completeness; the
// rest of the system rejects a non-IPv6 result).
func ParseBindingResponse(resp []byte) (netip.AddrPort, bool) {
	const headerSize = 20
	const attrHeaderSize = 4
	if len(resp) < headerSize+attrHeaderSize {
		return netip.AddrPort{}, false
	}

	attrType := binary.BigEndian.Uint16(resp[headerSize : headerSize+2])
	if attrType != 0x0020 { // XOR-MAPPED-ADDRESS
		return netip.AddrPort{}, false
	}

	if len(resp) < headerSize+attrHeaderSize+4 {
		return netip.AddrPort{}, false
	}

	family := resp[headerSize+attrHeaderSize+1]
	xport := resp[headerSize+attrHeaderSize+2 : headerSize+attrHeaderSize+4]
	port := (uint16(xport[0]^resp[4]) << 8) | uint16(xport[1]^resp[5])

	addrOffset := headerSize + attrHeaderSize + 4

	switch family {
	case 0x01: // IPv4
		if len(resp) < addrOffset+4 {
			return netip.AddrPort{}, false
		}
		var ip [4]byte
		for i := 0; i < 4; i++ {
			ip[i] = resp[addrOffset+i] ^ resp[4+i]
		}
		return netip.AddrPortFrom(netip.AddrFrom4(ip), port), true

	case 0x02: // IPv6
		if len(resp) < addrOffset+16 {
			return netip.AddrPort{}, false
		}
		var ip [16]byte
		for i := 0; i < 16; i++ {
			ip[i] = resp[addrOffset+i] ^ resp[4+i]
		}
		return netip.AddrPortFrom(netip.AddrFrom16(ip), port), true
	}

	return netip.AddrPort{}, false
}

func hostOf(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	return host
}

func portOf(hostport string) int {
	_, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return 0
	}
	var p int
	for _, c := range port {
		if c < '0' || c > '9' {
			return 0
		}
		p = p*10 + int(c-'0')
	}
	return p
}
