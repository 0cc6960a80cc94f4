package core

import "testing"

func TestParseFileCommand(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"single quotes", `'my file.txt'`, "my file.txt"},
		{"double quotes", `"my file.txt"`, "my file.txt"},
		{"no quotes", "plain.txt", "plain.txt"},
		{"surrounding whitespace", "  'spaced.txt'  ", "spaced.txt"},
		{"empty", "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ParseFileCommand(c.in); got != c.want {
				t.Errorf("ParseFileCommand(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestConsentMutualExclusion(t *testing.T) {
	s := newTestSession()

	ch, unsubscribe := s.responses.subscribe()
	defer unsubscribe()

	if !s.beginAwaitingResponse() {
		t.Fatalf("expected to claim awaiting-response slot")
	}
	defer s.endAwaitingResponse()

	// While awaiting a response, any typed line -- even one shaped
	// like a command -- must be delivered as a raw answer, not parsed.
	s.HandleLine("con:should-not-be-parsed")

	select {
	case got := <-ch:
		if got != "con:should-not-be-parsed" {
			t.Errorf("got %q, want the raw line delivered verbatim", got)
		}
	default:
		t.Fatalf("expected the line to be published to the responses channel")
	}
}
