package protocol

import (
	"bytes"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []Packet{
		BindPacket{Req: true, Accept: true, Name: "alice"},
		BindPacket{Req: false, Accept: false, Name: ""},
		ChatPacket{Username: "bob", Message: "hello there", Time: 1732999999},
		MetadataPacket{Filename: "x.bin", TotalChunks: 4, Key: HashHex([]byte("x.bin"))},
		MdResPacket{TotalChunks: 4, Key: HashHex([]byte("x.bin"))},
		NewFileChunk("x.bin", 100, 1, 4, []byte("some chunk payload")),
		FilePacket{Filename: "empty.bin", ChunkIndex: 1, TotalChunks: 1, Data: nil, Hash: ""},
		AckPacket{ChunkIndex: 2},
		DiscoveryPacket{Value: true},
	}

	for i, want := range cases {
		raw := Encode(want)
		got, ok := Decode(raw)
		if !ok {
			t.Fatalf("case %d: Decode failed for %#v", i, want)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("case %d: round-trip mismatch\n got: %#v\nwant: %#v", i, got, want)
		}
	}
}

func TestDecodeNeverPanics(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0xFF},
		{byte(CommandBind)},
		{byte(CommandBind), 1},
		{byte(CommandChat), 0xFF, 0xFF},
		{byte(CommandFile), 0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF},
		bytes.Repeat([]byte{0x01}, 3),
	}

	for i, raw := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("input %d: Decode panicked: %v", i, r)
				}
			}()
			if _, ok := Decode(raw); ok {
				t.Fatalf("input %d: expected decode failure, got success", i)
			}
		}()
	}
}

func TestMdResMatches(t *testing.T) {
	m := NewMetadata("report.pdf", 7)
	good := NewMdRes(m)
	if !good.Matches(m) {
		t.Fatalf("expected matching MdRes to verify")
	}

	badKey := MdResPacket{TotalChunks: m.TotalChunks, Key: "deadbeef"}
	if badKey.Matches(m) {
		t.Fatalf("expected mismatched key to fail verification")
	}

	badCount := MdResPacket{TotalChunks: m.TotalChunks + 1, Key: m.Key}
	if badCount.Matches(m) {
		t.Fatalf("expected mismatched total_chunks to fail verification")
	}
}

func TestVerifyChunk(t *testing.T) {
	chunk := NewFileChunk("x.bin", 10, 1, 1, []byte("0123456789"))
	if !chunk.VerifyChunk() {
		t.Fatalf("expected valid chunk to verify")
	}

	corrupted := chunk
	corrupted.Data = []byte("tampered!!")
	if corrupted.VerifyChunk() {
		t.Fatalf("expected corrupted chunk to fail verification")
	}

	noHash := FilePacket{Data: []byte("anything")}
	if !noHash.VerifyChunk() {
		t.Fatalf("expected chunk with no hash to pass verification")
	}
}
