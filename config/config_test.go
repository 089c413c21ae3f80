package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "blesim.yaml")
	if err := ioutil.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
adapters:
  - id: adv-1
    name: beacon
    advertise: true
    manufacturerData: ffff0102
  - id: scn-1
    scan: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("logLevel default %q", cfg.LogLevel)
	}
	if cfg.Journal != "discoveries.json" {
		t.Fatalf("journal default %q", cfg.Journal)
	}
	if len(cfg.Adapters) != 2 {
		t.Fatalf("parsed %d adapters", len(cfg.Adapters))
	}
	if cfg.Adapters[0].IntervalMs != 100 {
		t.Fatalf("intervalMs default %d", cfg.Adapters[0].IntervalMs)
	}
	if !cfg.Adapters[0].PoweredOn() {
		t.Fatal("powered should default to true")
	}

	payload, err := cfg.Adapters[0].Payload()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, []byte{0xFF, 0xFF, 0x01, 0x02}) {
		t.Fatalf("payload % X", payload)
	}
}

func TestLoadRejectsBadHex(t *testing.T) {
	path := writeConfig(t, `
adapters:
  - id: adv-1
    advertise: true
    manufacturerData: zznotahex
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for bad manufacturerData")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeConfig(t, `
adapters:
  - id: same
  - id: same
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for duplicate ids")
	}
}

func TestLoadRejectsEmptyFabric(t *testing.T) {
	path := writeConfig(t, `logLevel: debug`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a config with no adapters")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestPoweredOverride(t *testing.T) {
	path := writeConfig(t, `
adapters:
  - id: a1
    powered: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Adapters[0].PoweredOn() {
		t.Fatal("powered: false ignored")
	}
}
