package catalog

import (
	"strings"

	"github.com/max8938/FinalCallATC/internal/wire"
)

// Access describes which direction a message may travel.
type Access uint8

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

// Unit is the physical unit of a message value.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitMeter
	UnitMeterPerSecond
	UnitMeterPerSecondSquared
	UnitRadian
	UnitRadianPerSecond
	UnitHertz
	UnitPerSecond
)

// Flag selects how the host interprets a written value.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagValue
	FlagEvent
	FlagToggle
	FlagMove
	FlagOffset
	FlagStep
	FlagActive
)

var accessNames = [...]string{
	AccessNone:      "none",
	AccessRead:      "read",
	AccessWrite:     "write",
	AccessReadWrite: "read_write",
}

var unitNames = [...]string{
	UnitNone:                  "none",
	UnitMeter:                 "meter",
	UnitMeterPerSecond:        "meter_per_second",
	UnitMeterPerSecondSquared: "meter_per_second_squared",
	UnitRadian:                "radian",
	UnitRadianPerSecond:       "radian_per_second",
	UnitHertz:                 "hertz",
	UnitPerSecond:             "per_second",
}

var flagNames = [...]string{
	FlagNone:   "none",
	FlagValue:  "value",
	FlagEvent:  "event",
	FlagToggle: "toggle",
	FlagMove:   "move",
	FlagOffset: "offset",
	FlagStep:   "step",
	FlagActive: "active",
}

func (a Access) String() string { return enumName(accessNames[:], int(a)) }
func (u Unit) String() string   { return enumName(unitNames[:], int(u)) }
func (f Flag) String() string   { return enumName(flagNames[:], int(f)) }

// Readable reports whether the host sends this message to the bridge.
func (a Access) Readable() bool {
	return a == AccessRead || a == AccessReadWrite
}

// Writable reports whether a consumer may send this message to the host.
func (a Access) Writable() bool {
	return a == AccessWrite || a == AccessReadWrite
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "invalid"
}

func enumIndex(names []string, raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, name := range names {
		if name == raw {
			return i, true
		}
	}
	return 0, false
}

// Entry is one catalog record.
type Entry struct {
	ID          uint64
	Symbol      string
	Name        string
	Kind        wire.Kind
	Unit        Unit
	Access      Access
	Flag        Flag
	Description string
}
