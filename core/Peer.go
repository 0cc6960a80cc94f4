/*
File Name:  Peer.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import "net/netip"

// Peer identifies a remote participant by name and socket address.
// Identity for set membership is the (name, addr) pair: two peers with
// the same name but different addresses are distinct.
type Peer struct {
	Name string
	Addr netip.AddrPort
}
