package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/max8938/FinalCallATC/internal/catalog"
	"github.com/max8938/FinalCallATC/internal/wire"
)

// defaultNames is a typical cockpit feed.
var defaultNames = []string{
	"Aircraft.UniversalTime",
	"Aircraft.Altitude",
	"Aircraft.Position",
	"Aircraft.Velocity",
	"Aircraft.Pitch",
	"Aircraft.Bank",
	"Aircraft.TrueHeading",
	"Aircraft.IndicatedAirspeed",
	"Aircraft.OnGround",
	"Aircraft.Name",
	"Navigation.NAV1Frequency",
	"Controls.Gear",
}

// feed produces one synthetic record stream per tick.
type feed struct {
	entries []catalog.Entry
	buf     []byte
}

func newFeed(cat *catalog.Catalog, names []string) (*feed, error) {
	if len(names) == 0 {
		names = defaultNames
	}
	f := &feed{entries: make([]catalog.Entry, 0, len(names))}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		e, ok := cat.LookupName(name)
		if !ok {
			return nil, fmt.Errorf("unknown message name: %s", name)
		}
		f.entries = append(f.entries, e)
	}
	if len(f.entries) == 0 {
		return nil, fmt.Errorf("no message names to feed")
	}
	return f, nil
}

// next encodes every feed entry with values derived from simulator time t.
func (f *feed) next(t float64) ([]byte, uint32) {
	f.buf = f.buf[:0]
	for i, e := range f.entries {
		phase := t + float64(i)
		var m wire.Message
		switch e.Kind {
		case wire.KindInt:
			m = wire.IntMessage(e.ID, int64(t))
		case wire.KindDouble:
			m = wire.DoubleMessage(e.ID, 1000+100*math.Sin(phase))
		case wire.KindVector2:
			m = wire.Vector2Message(e.ID, math.Cos(phase), math.Sin(phase))
		case wire.KindVector3:
			m = wire.Vector3Message(e.ID, 4000*math.Cos(phase), 4000*math.Sin(phase), 1000)
		case wire.KindVector4:
			m = wire.Vector4Message(e.ID, 1, 0, 0, math.Sin(phase))
		case wire.KindString:
			m = wire.StringMessage(e.ID, "Cessna 172")
		case wire.KindBinary:
			m = wire.Message{ID: e.ID, Kind: wire.KindBinary, Text: "sim"}
		default:
			m = wire.Message{ID: e.ID, Kind: e.Kind, Raw: []byte{0}}
		}
		f.buf = wire.AppendRecord(f.buf, m)
	}
	return f.buf, uint32(len(f.entries))
}
