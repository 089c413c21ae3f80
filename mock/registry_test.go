package mock

import (
	"testing"

	"github.com/ghostmesh/blesim"
)

func TestRegistryRejectsCollision(t *testing.T) {
	reg := NewRegistry()
	if _, err := NewAdapter(reg, Options{ID: "dup"}); err != nil {
		t.Fatal(err)
	}
	_, err := NewAdapter(reg, Options{ID: "dup"})
	if blesim.CodeOf(err) != blesim.CodeInvalidParameter {
		t.Fatalf("expected invalid parameter on collision, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry len %d after rejected collision", reg.Len())
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	a := newTestAdapter(t, reg, "a1")

	got, ok := reg.Lookup("a1")
	if !ok || got != a {
		t.Fatal("lookup missed a live registration")
	}
	if _, ok := reg.Lookup("nope"); ok {
		t.Fatal("lookup invented an adapter")
	}
}

func TestUnregisterGuardsAgainstStaleOwner(t *testing.T) {
	reg := NewRegistry()
	stale := &Adapter{id: "x"}
	live := &Adapter{id: "x"}
	if err := reg.Register("x", live); err != nil {
		t.Fatal(err)
	}

	// The stale adapter must not be able to evict the live one.
	reg.Unregister("x", stale)
	if got, ok := reg.Lookup("x"); !ok || got != live {
		t.Fatal("stale unregister removed a newer registration")
	}

	reg.Unregister("x", live)
	if _, ok := reg.Lookup("x"); ok {
		t.Fatal("owner unregister did not remove the entry")
	}
}

func TestDestroyedIDCanBeReused(t *testing.T) {
	reg := NewRegistry()
	a := newTestAdapter(t, reg, "reuse")
	if err := a.Destroy(); err != nil {
		t.Fatal(err)
	}
	b, err := NewAdapter(reg, Options{ID: "reuse"})
	if err != nil {
		t.Fatalf("id not reusable after destroy: %s", err)
	}
	// Destroying the stale adapter again must leave b registered.
	if err := a.Destroy(); err != nil {
		t.Fatal(err)
	}
	if got, ok := reg.Lookup("reuse"); !ok || got != b {
		t.Fatal("stale destroy removed the new registration")
	}
}

func TestSetRadioPowerAffectsAllAdapters(t *testing.T) {
	reg := NewRegistry()
	adv := newTestAdapter(t, reg, "adv")
	scn := newTestAdapter(t, reg, "scn")

	opts := blesim.DefaultAdvertisingOptions()
	opts.ManufacturerData = []byte{0xFF, 0xFF}
	if err := adv.StartAdvertising(opts); err != nil {
		t.Fatal(err)
	}
	if err := scn.StartScanning(blesim.DefaultScanOptions()); err != nil {
		t.Fatal(err)
	}

	reg.SetRadioPower(blesim.StatePoweredOff)

	for _, a := range []*Adapter{adv, scn} {
		st, err := a.State()
		if err != nil {
			t.Fatal(err)
		}
		if st != blesim.StatePoweredOff {
			t.Fatalf("%s state %v after radio power off", a.ID(), st)
		}
	}
	if adv.Advertising() || scn.Scanning() {
		t.Fatal("activity survived radio power off")
	}

	reg.SetRadioPower(blesim.StatePoweredOn)
	if st, _ := adv.State(); st != blesim.StatePoweredOn {
		t.Fatal("radio power on missed an adapter")
	}
}
