package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/max8938/FinalCallATC/internal/testutil/testlog"
	"github.com/max8938/FinalCallATC/internal/wire"
)

func TestHashIsFNV1a(t *testing.T) {
	if got := Hash(""); got != hashOffset {
		t.Fatalf("empty hash: got 0x%x", got)
	}
	if got := Hash("a"); got != 0xaf63dc4c8601ec8c {
		t.Fatalf("hash(a): got 0x%x", got)
	}
	if Hash("Aircraft.Altitude") == Hash("aircraft.altitude") {
		t.Fatalf("hash must be case sensitive")
	}
}

func TestDefaultCatalogLoads(t *testing.T) {
	testlog.Start(t)
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if c.Len() != 347 {
		t.Fatalf("unexpected entry count: %d", c.Len())
	}
	again, _ := Default()
	if again != c {
		t.Fatalf("default catalog must be shared")
	}

	e, ok := c.LookupName("Aircraft.Altitude")
	if !ok {
		t.Fatalf("missing Aircraft.Altitude")
	}
	if e.ID != Hash("Aircraft.Altitude") || e.Kind != wire.KindDouble || e.Unit != UnitMeter || e.Access != AccessRead || e.Flag != FlagValue {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Symbol != "AircraftAltitude" {
		t.Fatalf("unexpected symbol: %q", e.Symbol)
	}

	pos, ok := c.LookupName("Aircraft.Position")
	if !ok || pos.Kind != wire.KindVector3 {
		t.Fatalf("unexpected Aircraft.Position: %+v", pos)
	}
	freq, ok := c.LookupName("Navigation.NAV1Frequency")
	if !ok || freq.Unit != UnitHertz || !freq.Access.Writable() || !freq.Access.Readable() {
		t.Fatalf("unexpected Navigation.NAV1Frequency: %+v", freq)
	}
}

func TestDefaultCatalogVariantsShareIdentifier(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	id := Hash("Controls.Gear")
	vs := c.Variants(id)
	if len(vs) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(vs))
	}
	if vs[0].Flag != FlagValue || vs[1].Flag != FlagToggle {
		t.Fatalf("unexpected variant order: %v %v", vs[0].Flag, vs[1].Flag)
	}
	primary, _ := c.Lookup(id)
	if primary.Symbol != "ControlsGear" {
		t.Fatalf("primary must be the first declared variant, got %q", primary.Symbol)
	}
}

func TestResolveUnknown(t *testing.T) {
	var nilCat *Catalog
	empty, err := New(nil)
	if err != nil {
		t.Fatalf("empty catalog: %v", err)
	}
	full, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	for _, c := range []*Catalog{nilCat, empty, full} {
		if got := c.Resolve(0xdeadbeef); got != UnknownName {
			t.Fatalf("expected %q, got %q", UnknownName, got)
		}
		if _, ok := c.Lookup(0xdeadbeef); ok {
			t.Fatalf("unexpected hit")
		}
	}
	if got := full.Resolve(Hash("Aircraft.Name")); got != "Aircraft.Name" {
		t.Fatalf("unexpected resolve: %q", got)
	}
}

func TestLoadRejectsBadRecords(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"empty name", "[[message]]\nname = \" \"\nkind = \"double\"\nflag = \"value\"\naccess = \"read\"\nunit = \"none\"\n", ErrEmptyName},
		{"kind", "[[message]]\nname = \"A.B\"\nkind = \"quaternion\"\nflag = \"value\"\naccess = \"read\"\nunit = \"none\"\n", ErrUnknownKind},
		{"access", "[[message]]\nname = \"A.B\"\nkind = \"double\"\nflag = \"value\"\naccess = \"sometimes\"\nunit = \"none\"\n", ErrUnknownAccess},
		{"unit", "[[message]]\nname = \"A.B\"\nkind = \"double\"\nflag = \"value\"\naccess = \"read\"\nunit = \"furlong\"\n", ErrUnknownUnit},
		{"flag", "[[message]]\nname = \"A.B\"\nkind = \"double\"\nflag = \"maybe\"\naccess = \"read\"\nunit = \"none\"\n", ErrUnknownFlag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.data))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	if _, err := Load([]byte("[[message]\nname=")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewRejectsCollisions(t *testing.T) {
	_, err := New([]Entry{
		{ID: 7, Name: "A.First"},
		{ID: 7, Name: "A.Second"},
	})
	if !errors.Is(err, ErrHashCollision) {
		t.Fatalf("expected ErrHashCollision, got %v", err)
	}
}

func TestNewFillsIdentifiers(t *testing.T) {
	c, err := New([]Entry{{Name: "Sim.Pause", Kind: wire.KindDouble}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	e, ok := c.Lookup(Hash("Sim.Pause"))
	if !ok || e.Name != "Sim.Pause" {
		t.Fatalf("unexpected lookup: %+v %v", e, ok)
	}
	entries := c.Entries()
	entries[0].Name = "mutated"
	if c.Resolve(Hash("Sim.Pause")) != "Sim.Pause" {
		t.Fatalf("Entries must return a copy")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	content := `
[[message]]
symbol = "Custom"
name = "Custom.Value"
kind = "int"
flag = "value"
access = "read_write"
unit = "per_second"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	e, ok := c.LookupName("Custom.Value")
	if !ok || e.Kind != wire.KindInt || e.Access != AccessReadWrite || e.Unit != UnitPerSecond {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
