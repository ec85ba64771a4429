package snapshot

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/max8938/FinalCallATC/internal/wire"
	"github.com/tidwall/gjson"
)

func TestSerializeDoubleScenario(t *testing.T) {
	doc := Serialize(0.016, []Field{
		{Name: "Aircraft.Altitude", Message: wire.DoubleMessage(1, 123.456789)},
	})
	want := `{"timestamp":0.016000,"Aircraft.Altitude":123.456789}`
	if string(doc) != want {
		t.Fatalf("unexpected document:\n got %s\nwant %s", doc, want)
	}
}

func TestSerializeVectorScenario(t *testing.T) {
	doc := Serialize(1, []Field{
		{Name: "Aircraft.Position", Message: wire.Vector3Message(2, 1, 2, 3)},
	})
	if !strings.Contains(string(doc), `"Aircraft.Position":[1.000000,2.000000,3.000000]`) {
		t.Fatalf("unexpected document: %s", doc)
	}
}

func TestSerializeEscapesQuotes(t *testing.T) {
	doc := Serialize(0, []Field{
		{Name: "Aircraft.Name", Message: wire.StringMessage(3, `Cessna "172" \ SP`)},
	})
	if !strings.Contains(string(doc), `"Aircraft.Name":"Cessna \"172\" \\ SP"`) {
		t.Fatalf("unexpected document: %s", doc)
	}
	var out map[string]any
	if err := json.Unmarshal(doc, &out); err != nil {
		t.Fatalf("document not valid JSON: %v\n%s", err, doc)
	}
	if out["Aircraft.Name"] != `Cessna "172" \ SP` {
		t.Fatalf("string did not survive: %q", out["Aircraft.Name"])
	}
}

func TestSerializeEveryKindIsValidJSON(t *testing.T) {
	fields := []Field{
		{Name: "int", Message: wire.IntMessage(1, -9007199254740)},
		{Name: "double", Message: wire.DoubleMessage(2, -0.0000004)},
		{Name: "vec2", Message: wire.Vector2Message(3, 1.25, -2.5)},
		{Name: "vec3", Message: wire.Vector3Message(4, 1e9, -1e-9, 0)},
		{Name: "vec4", Message: wire.Vector4Message(5, 0.1, 0.2, 0.3, 0.4)},
		{Name: "string", Message: wire.StringMessage(6, "line1\nline2\ttab\x01")},
		{Name: "binary", Message: wire.Message{ID: 7, Kind: wire.KindBinary, Text: "bad\xffutf8"}},
		{Name: "none", Message: wire.Message{ID: 8, Kind: wire.KindNone, Raw: []byte{1}}},
		{Name: "future", Message: wire.Message{ID: 9, Kind: wire.Kind(200)}},
		{Name: "nan", Message: wire.DoubleMessage(10, math.NaN())},
		{Name: "inf", Message: wire.Vector2Message(11, math.Inf(1), 1)},
		{Name: "ctrl\"name", Message: wire.IntMessage(12, 1)},
	}
	doc := Serialize(12.5, fields)
	if !json.Valid(doc) {
		t.Fatalf("document not valid JSON:\n%s", doc)
	}
	res := gjson.ParseBytes(doc)
	if res.Get("int").Int() != -9007199254740 {
		t.Fatalf("int mismatch: %s", res.Get("int").Raw)
	}
	if res.Get("double").Raw != "-0.000000" {
		t.Fatalf("double mismatch: %s", res.Get("double").Raw)
	}
	if res.Get("string").String() != "line1\nline2\ttab\x01" {
		t.Fatalf("control characters did not survive: %q", res.Get("string").String())
	}
	if res.Get("binary").String() != "bad�utf8" {
		t.Fatalf("invalid utf8 not replaced: %q", res.Get("binary").String())
	}
	for _, key := range []string{"none", "future", "nan"} {
		if res.Get(key).Type != gjson.Null {
			t.Fatalf("%s must be null, got %s", key, res.Get(key).Raw)
		}
	}
	if res.Get("inf").Raw != "[null,1.000000]" {
		t.Fatalf("inf mismatch: %s", res.Get("inf").Raw)
	}
}

func TestSerializeRoundTripsWithinPrecision(t *testing.T) {
	values := []float64{0, 1, -1, 0.1234564, 0.1234565, 123.456789, -98765.4321, 1e12 + 0.5, 3.14159265358979}
	for _, v := range values {
		doc := Serialize(v, []Field{{Name: "v", Message: wire.DoubleMessage(1, v)}})
		var out struct {
			Timestamp float64 `json:"timestamp"`
			V         float64 `json:"v"`
		}
		if err := json.Unmarshal(doc, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", doc, err)
		}
		if math.Abs(out.V-v) > 1e-6 || math.Abs(out.Timestamp-v) > 1e-6 {
			t.Fatalf("value %v came back as %v / %v", v, out.V, out.Timestamp)
		}
	}
}

func TestSerializeKeepsDuplicateNamesInOrder(t *testing.T) {
	doc := Serialize(0, []Field{
		{Name: "unknown", Message: wire.IntMessage(1, 1)},
		{Name: "Aircraft.Gear", Message: wire.DoubleMessage(2, 1)},
		{Name: "unknown", Message: wire.IntMessage(3, 2)},
	})
	want := `{"timestamp":0.000000,"unknown":1,"Aircraft.Gear":1.000000,"unknown":2}`
	if string(doc) != want {
		t.Fatalf("unexpected document:\n got %s\nwant %s", doc, want)
	}
}

func TestSerializeEmpty(t *testing.T) {
	if got := string(Serialize(0, nil)); got != `{"timestamp":0.000000}` {
		t.Fatalf("unexpected document: %s", got)
	}
}

func TestAppendDocumentReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 256)
	fields := []Field{{Name: "a", Message: wire.IntMessage(1, 1)}}
	first := AppendDocument(buf, 1, fields)
	second := AppendDocument(first[:0], 1, fields)
	if string(first) != string(second) || &first[0] != &second[0] {
		t.Fatalf("expected identical output in the same buffer")
	}
}
