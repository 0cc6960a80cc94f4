package addr

import (
	"net/netip"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	want := netip.MustParseAddrPort("[2001:db8::1]:4242")

	encoded := Encode(want)
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != want {
		t.Errorf("round-trip mismatch: got %v, want %v", got, want)
	}
}

func TestDecodeRejectsMissingSeparator(t *testing.T) {
	if _, err := Decode("notanaddress"); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	// valid base58 but decodes to the wrong byte lengths
	short := Encode(netip.MustParseAddrPort("[::1]:80"))
	// Keep the valid ip component and pair it with "2", which decodes
	// to a single byte instead of the two a port needs.
	ipOnly, _, _ := strings.Cut(short, "/")
	if _, err := Decode(ipOnly + "/" + "2"); err == nil {
		t.Fatalf("expected error for invalid port component")
	}

	if _, err := Decode("2/" + short[len(short)-2:]); err == nil {
		t.Fatalf("expected error for invalid ip component")
	}
}
