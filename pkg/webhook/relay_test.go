package webhook

import (
	"errors"
	"testing"
)

func TestRelayPassesPayloadThrough(t *testing.T) {
	tests := []string{
		`{"foo":1}`,
		`{ "nested": {"a": [1, 2, 3]}, "b": null }`,
		`[1,"two"]`,
		`"just a string"`,
	}

	for _, in := range tests {
		out, err := Relay([]byte(in))
		if err != nil {
			t.Fatalf("Relay(%s): %v", in, err)
		}
		if string(out) != in {
			t.Errorf("Relay(%s) = %s, want unchanged", in, out)
		}
	}
}

func TestRelayCopiesBody(t *testing.T) {
	body := []byte(`{"foo":1}`)
	out, err := Relay(body)
	if err != nil {
		t.Fatal(err)
	}
	body[2] = 'x'
	if string(out) != `{"foo":1}` {
		t.Errorf("payload aliases the inbound buffer: %s", out)
	}
}

func TestRelayInvalidPayload(t *testing.T) {
	for _, in := range []string{"", "not json", `{"foo":`, "foo=1&bar=2"} {
		if _, err := Relay([]byte(in)); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Relay(%q) err = %v, want ErrInvalidPayload", in, err)
		}
	}
}
