package blesim

import (
	"testing"

	"github.com/pkg/errors"
)

func TestStateStrings(t *testing.T) {
	cases := map[AdapterState]string{
		StateUnknown:     "unknown",
		StatePoweredOn:   "poweredOn",
		StatePoweredOff:  "poweredOff",
		AdapterState(99): "unknown",
	}
	for st, want := range cases {
		if st.String() != want {
			t.Fatalf("%d.String() = %q, want %q", st, st.String(), want)
		}
	}
}

func TestParseState(t *testing.T) {
	for _, st := range []AdapterState{StateUnknown, StatePoweredOn, StatePoweredOff} {
		got, err := ParseState(st.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != st {
			t.Fatalf("round trip %v -> %v", st, got)
		}
	}

	if _, err := ParseState("resetting"); CodeOf(err) != CodeInvalidParameter {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

func TestCodeOfUnwraps(t *testing.T) {
	base := NewError(CodeAlreadyActive, "already advertising")
	wrapped := errors.Wrap(errors.Wrap(base, "start"), "harness")
	if CodeOf(wrapped) != CodeAlreadyActive {
		t.Fatalf("CodeOf lost the classification through wrapping: %v", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != CodeUnknown {
		t.Fatal("plain errors should classify as unknown")
	}
	if CodeOf(nil) != CodeUnknown {
		t.Fatal("nil should classify as unknown")
	}
}

func TestErrorString(t *testing.T) {
	e := NewError(CodePayloadTooLarge, "32 bytes")
	if e.Error() != "payload too large: 32 bytes" {
		t.Fatalf("got %q", e.Error())
	}
	e.Native = "kCBErrorCodeUnknown"
	if e.Error() != "payload too large: 32 bytes (kCBErrorCodeUnknown)" {
		t.Fatalf("got %q", e.Error())
	}
}

func TestCompanyID(t *testing.T) {
	d := DiscoveredDevice{ManufacturerData: []byte{0x4C, 0x00, 0x10}}
	id, ok := d.CompanyID()
	if !ok || id != 0x004C {
		t.Fatalf("company id %04X ok=%v", id, ok)
	}

	short := DiscoveredDevice{ManufacturerData: []byte{0x01}}
	if _, ok := short.CompanyID(); ok {
		t.Fatal("short payload should not yield a company id")
	}
}
