/*
File Name:  Transfer.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package core

import "time"

// chunkSize is the maximum payload carried by one File packet: 59 KiB,
// leaving headroom under the 65536-byte datagram ceiling for envelope
// overhead.
const chunkSize = 59 * 1024

const (
	mdResCollectTimeout = 5 * time.Second
	ackTimeout          = 3 * time.Second
	maxSendRetries      = 3

	fileConsentTimeout = 4 * time.Second
	chunkWaitTimeout   = 4 * time.Second
	maxReceiveRetries  = 3
)
