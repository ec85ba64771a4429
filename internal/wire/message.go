package wire

// Message is one decoded record.
//
// Which payload field is meaningful depends on Kind: Int for KindInt,
// Vec[0] for KindDouble, Vec[:Kind.Components()] for vectors, Text for
// KindString and KindBinary. Raw holds the payload of KindNone and of
// tags this reader does not know.
type Message struct {
	ID    uint64
	Kind  Kind
	Flags uint64
	Int   int64
	Vec   [4]float64
	Text  string
	Raw   []byte
}

func IntMessage(id uint64, v int64) Message {
	return Message{ID: id, Kind: KindInt, Int: v}
}

func DoubleMessage(id uint64, v float64) Message {
	return Message{ID: id, Kind: KindDouble, Vec: [4]float64{v}}
}

func Vector2Message(id uint64, x, y float64) Message {
	return Message{ID: id, Kind: KindVector2, Vec: [4]float64{x, y}}
}

func Vector3Message(id uint64, x, y, z float64) Message {
	return Message{ID: id, Kind: KindVector3, Vec: [4]float64{x, y, z}}
}

func Vector4Message(id uint64, x, y, z, w float64) Message {
	return Message{ID: id, Kind: KindVector4, Vec: [4]float64{x, y, z, w}}
}

func StringMessage(id uint64, v string) Message {
	return Message{ID: id, Kind: KindString, Text: v}
}

// Double returns the scalar value of a KindDouble message.
func (m Message) Double() float64 {
	return m.Vec[0]
}

// Vector returns the used components of a vector message.
func (m Message) Vector() []float64 {
	return m.Vec[:m.Kind.Components()]
}
