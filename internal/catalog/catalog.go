package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/max8938/FinalCallATC/internal/wire"
	"github.com/pelletier/go-toml/v2"
)

// UnknownName is what Resolve returns for identifiers the catalog lacks.
const UnknownName = "unknown"

var (
	ErrEmptyName     = errors.New("catalog: empty message name")
	ErrUnknownKind   = errors.New("catalog: unknown kind")
	ErrUnknownAccess = errors.New("catalog: unknown access")
	ErrUnknownUnit   = errors.New("catalog: unknown unit")
	ErrUnknownFlag   = errors.New("catalog: unknown flag")
	ErrHashCollision = errors.New("catalog: identifier collision")
)

//go:embed catalog.toml
var defaultTable []byte

type tableFile struct {
	Messages []tableRecord `toml:"message"`
}

type tableRecord struct {
	Symbol      string `toml:"symbol"`
	Name        string `toml:"name"`
	Kind        string `toml:"kind"`
	Flag        string `toml:"flag"`
	Access      string `toml:"access"`
	Unit        string `toml:"unit"`
	Description string `toml:"description"`
}

// Catalog maps identifiers to entries. The zero value and nil are empty
// catalogs.
type Catalog struct {
	entries []Entry
	byID    map[uint64][]int
	byName  map[string]uint64
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built from the embedded table. It is parsed
// on first use and shared afterwards.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(defaultTable)
	})
	return defaultCat, defaultErr
}

// LoadFile builds a catalog from a table file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed (%s): %w", path, err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed (%s): %w", path, err)
	}
	return c, nil
}

// Load parses a TOML message table.
func Load(data []byte) (*Catalog, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog parse failed: %w", err)
	}
	entries := make([]Entry, 0, len(file.Messages))
	for i, rec := range file.Messages {
		e, err := rec.entry()
		if err != nil {
			return nil, fmt.Errorf("message[%d] invalid: %w", i, err)
		}
		entries = append(entries, e)
	}
	return New(entries)
}

// New indexes entries, filling in missing identifiers from names.
// Entries sharing a name become variants of one identifier; two names
// hashing to the same identifier are rejected.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[uint64][]int, len(entries)),
		byName:  make(map[string]uint64, len(entries)),
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("entry[%d]: %w", i, ErrEmptyName)
		}
		if e.ID == 0 {
			e.ID = Hash(e.Name)
		}
		if idx, ok := c.byID[e.ID]; ok {
			if prev := c.entries[idx[0]]; prev.Name != e.Name {
				return nil, fmt.Errorf("%w: %q and %q share 0x%016x", ErrHashCollision, prev.Name, e.Name, e.ID)
			}
		} else {
			c.byName[e.Name] = e.ID
		}
		c.byID[e.ID] = append(c.byID[e.ID], len(c.entries))
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (r tableRecord) entry() (Entry, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Entry{}, ErrEmptyName
	}
	kind, ok := wire.ParseKind(r.Kind)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	access, ok := enumIndex(accessNames[:], r.Access)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAccess, r.Access)
	}
	unit, ok := enumIndex(unitNames[:], r.Unit)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownUnit, r.Unit)
	}
	flag, ok := enumIndex(flagNames[:], r.Flag)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownFlag, r.Flag)
	}
	return Entry{
		ID:          Hash(name),
		Symbol:      strings.TrimSpace(r.Symbol),
		Name:        name,
		Kind:        kind,
		Unit:        Unit(unit),
		Access:      Access(access),
		Flag:        Flag(flag),
		Description: strings.TrimSpace(r.Description),
	}, nil
}

// Lookup returns the primary entry for id.
func (c *Catalog) Lookup(id uint64) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx[0]], true
}

// LookupName returns the primary entry registered under name.
func (c *Catalog) LookupName(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	id, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.Lookup(id)
}

// Variants returns every entry sharing id, primary first.
func (c *Catalog) Variants(id uint64) []Entry {
	if c == nil {
		return nil
	}
	idx := c.byID[id]
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.entries[i])
	}
	return out
}

// Resolve maps id to its dotted name, or UnknownName.
func (c *Catalog) Resolve(id uint64) string {
	if e, ok := c.Lookup(id); ok {
		return e.Name
	}
	return UnknownName
}

// Len is the number of entries, variants included.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of all entries in declaration order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
