/*
File Name:  Hash.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner

Hashing used for transfer identity (BLAKE3 of a filename) and chunk
integrity (BLAKE3 of chunk data): one primitive for both purposes.
*/
package protocol

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// HashHex returns the hex-encoded BLAKE3-256 digest of data.
func HashHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether a MdRes is a valid acceptance of the given
// Metadata offer: both the transfer key and the chunk count must agree.
func (res MdResPacket) Matches(m MetadataPacket) bool {
	return res.Key == m.Key && res.TotalChunks == m.TotalChunks
}

// VerifyChunk reports whether a File packet's data matches its declared
// hash. A packet with no hash (empty string) is treated as unverifiable
// and always passes, per the wire format allowing an absent hash.
func (f FilePacket) VerifyChunk() bool {
	if f.Hash == "" {
		return true
	}
	return HashHex(f.Data) == f.Hash
}

// NewMetadata builds a Metadata offer for filename, keyed by its BLAKE3 hash.
func NewMetadata(filename string, totalChunks uint32) MetadataPacket {
	return MetadataPacket{
		Filename:    filename,
		TotalChunks: totalChunks,
		Key:         HashHex([]byte(filename)),
	}
}

// NewMdRes builds the acceptance response echoing a Metadata offer's
// identifying fields.
func NewMdRes(m MetadataPacket) MdResPacket {
	return MdResPacket{TotalChunks: m.TotalChunks, Key: m.Key}
}

// NewFileChunk builds a File packet for one chunk, hashing its payload.
func NewFileChunk(filename string, filesize uint32, chunkIndex, totalChunks uint32, data []byte) FilePacket {
	return FilePacket{
		Filename:    filename,
		Filesize:    filesize,
		ChunkIndex:  chunkIndex,
		TotalChunks: totalChunks,
		Data:        data,
		Hash:        HashHex(data),
	}
}
