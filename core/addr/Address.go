/*
File Name:  Address.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner

Package addr implements the base58 public-address format used only for
human display and for the `con:` command's argument: a public IPv6
socket address serialized as base58(16-byte IPv6) + "/" +
base58(2-byte big-endian port).

This is the "base58 address encoding used only for human display"
collaborator named as out of the core's scope; it is kept in its own
package so the core never imports a display concern, even though
decoding is exercised functionally by the `con:` command.
*/
package addr

import (
	"errors"
	"net/netip"
	"strings"

	"github.com/mr-tron/base58"
)

// Encode renders a public IPv6 address and port in the base58 address
// format: base58(ip)/base58(port).
func Encode(ap netip.AddrPort) string {
	ip := ap.Addr().As16()
	var port [2]byte
	port[0] = byte(ap.Port() >> 8)
	port[1] = byte(ap.Port())

	return base58.Encode(ip[:]) + "/" + base58.Encode(port[:])
}

// Decode parses the base58 address format produced by Encode. It
// rejects any component whose decoded byte length is not 16 (IP) or 2
// (port) respectively, and any input missing the "/" separator.
func Decode(s string) (netip.AddrPort, error) {
	ipPart, portPart, found := strings.Cut(s, "/")
	if !found {
		return netip.AddrPort{}, errors.New("addr: missing '/' separator")
	}

	ipBytes, err := base58.Decode(ipPart)
	if err != nil {
		return netip.AddrPort{}, errors.New("addr: invalid base58 ip")
	}
	if len(ipBytes) != 16 {
		return netip.AddrPort{}, errors.New("addr: invalid ipv6 address length")
	}

	portBytes, err := base58.Decode(portPart)
	if err != nil {
		return netip.AddrPort{}, errors.New("addr: invalid base58 port")
	}
	if len(portBytes) != 2 {
		return netip.AddrPort{}, errors.New("addr: invalid port length")
	}

	var ipArr [16]byte
	copy(ipArr[:], ipBytes)
	port := uint16(portBytes[0])<<8 | uint16(portBytes[1])

	return netip.AddrPortFrom(netip.AddrFrom16(ipArr), port), nil
}
