package cache

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/ghostmesh/blesim"
)

func TestJournalRecordLoad(t *testing.T) {
	defer os.Remove("./test.journal")

	j := New("./test.journal")

	first := blesim.DiscoveredDevice{
		Address:          "adv-1",
		Name:             "beacon",
		ManufacturerData: []byte{0xFF, 0xFF, 0x01, 0x02},
		Timestamp:        time.Unix(1700000000, 0).UTC(),
	}
	second := blesim.DiscoveredDevice{
		Address:   "adv-2",
		Timestamp: time.Unix(1700000060, 0).UTC(),
	}

	if err := j.Record("scn-1", first); err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}
	if err := j.Record("scn-1", second); err != nil {
		t.Fatalf("expected nil error but got %s instead", err)
	}

	dd, err := j.Load("scn-1")
	if err != nil {
		t.Fatalf("expected to find observer in journal but did not: %s", err)
	}
	if len(dd) != 2 {
		t.Fatalf("expected 2 records, got %d", len(dd))
	}
	if dd[0].Address != first.Address || dd[0].Name != first.Name {
		t.Fatalf("first record mangled: %+v", dd[0])
	}
	if !bytes.Equal(dd[0].ManufacturerData, first.ManufacturerData) {
		t.Fatalf("payload mangled: % X", dd[0].ManufacturerData)
	}
	if !dd[0].Timestamp.Equal(first.Timestamp) {
		t.Fatalf("timestamp mangled: %s", dd[0].Timestamp)
	}
	if dd[1].Address != second.Address {
		t.Fatalf("second record mangled: %+v", dd[1])
	}
}

func TestJournalLoadUnknownObserver(t *testing.T) {
	defer os.Remove("./test.journal")

	j := New("./test.journal")
	if err := j.Record("scn-1", blesim.DiscoveredDevice{Address: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Load("someone-else"); err == nil {
		t.Fatal("expected an error for an unknown observer")
	}
}

func TestJournalClear(t *testing.T) {
	defer os.Remove("./test.journal")

	j := New("./test.journal")
	if err := j.Record("scn-1", blesim.DiscoveredDevice{Address: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := j.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Load("scn-1"); err == nil {
		t.Fatal("journal survived clear")
	}

	// clearing an absent journal is fine
	if err := j.Clear(); err != nil {
		t.Fatalf("clear on missing file: %s", err)
	}
}
