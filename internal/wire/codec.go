// Package wire converts between event.Event values and the tagged records the
// native toolkit emits. A record is a protobuf-wire message whose field 1 is the
// event tag and field 2 the payload message.
package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrUnknownTag is returned for a record whose tag names no known event
	ErrUnknownTag = errors.New("unknown event tag")
	// ErrMalformed is returned for records that are not well formed
	ErrMalformed = errors.New("malformed record")
)

// IsFatal reports whether err means the toolkit and the application disagree on
// the event contract. Such errors must end the event loop.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnknownTag) || errors.Is(err, ErrMalformed)
}

const (
	fieldTag     protowire.Number = 1
	fieldPayload protowire.Number = 2
)

type encoder struct {
	b []byte
}

func (e *encoder) uint(num protowire.Number, v uint64) {
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) sint(num protowire.Number, v int64) {
	e.uint(num, protowire.EncodeZigZag(v))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	e.uint(num, protowire.EncodeBool(v))
}

func (e *encoder) double(num protowire.Number, v float64) {
	e.b = protowire.AppendTag(e.b, num, protowire.Fixed64Type)
	e.b = protowire.AppendFixed64(e.b, math.Float64bits(v))
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) string(num protowire.Number, v string) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) message(num protowire.Number, fill func(*encoder)) {
	var inner encoder
	fill(&inner)
	e.bytes(num, inner.b)
}

type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

// message is a parsed payload. Accessors record the first type mismatch in err
// so decoders can read every field and check once.
type message struct {
	fields []field
	err    *error
}

func parse(b []byte) (message, error) {
	var fields []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return message{}, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.v, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var v32 uint32
			v32, n = protowire.ConsumeFixed32(b)
			f.v = uint64(v32)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return message{}, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
		fields = append(fields, f)
	}
	var err error
	return message{fields: fields, err: &err}, nil
}

func (m message) fail(format string, args ...any) {
	if *m.err == nil {
		*m.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

// last returns the final occurrence of num, mirroring protobuf's last-wins rule
func (m message) last(num protowire.Number, typ protowire.Type) (field, bool) {
	for i := len(m.fields) - 1; i >= 0; i-- {
		f := m.fields[i]
		if f.num != num {
			continue
		}
		if f.typ != typ {
			m.fail("field %d has wire type %d, want %d", num, f.typ, typ)
			return field{}, false
		}
		return f, true
	}
	return field{}, false
}

func (m message) has(num protowire.Number) bool {
	for _, f := range m.fields {
		if f.num == num {
			return true
		}
	}
	return false
}

func (m message) uint(num protowire.Number) uint64 {
	f, _ := m.last(num, protowire.VarintType)
	return f.v
}

func (m message) uint32(num protowire.Number) uint32 {
	v := m.uint(num)
	if v > math.MaxUint32 {
		m.fail("field %d overflows uint32", num)
	}
	return uint32(v)
}

func (m message) sint(num protowire.Number) int64 {
	return protowire.DecodeZigZag(m.uint(num))
}

func (m message) int32(num protowire.Number) int32 {
	v := m.sint(num)
	if v < math.MinInt32 || v > math.MaxInt32 {
		m.fail("field %d overflows int32", num)
	}
	return int32(v)
}

func (m message) bool(num protowire.Number) bool {
	return protowire.DecodeBool(m.uint(num))
}

func (m message) double(num protowire.Number) float64 {
	f, _ := m.last(num, protowire.Fixed64Type)
	return math.Float64frombits(f.v)
}

func (m message) bytes(num protowire.Number) []byte {
	f, ok := m.last(num, protowire.BytesType)
	if !ok {
		return nil
	}
	return append([]byte(nil), f.b...)
}

func (m message) string(num protowire.Number) string {
	f, _ := m.last(num, protowire.BytesType)
	return string(f.b)
}

// optString preserves presence
func (m message) optString(num protowire.Number) *string {
	f, ok := m.last(num, protowire.BytesType)
	if !ok {
		return nil
	}
	s := string(f.b)
	return &s
}

func (m message) strings(num protowire.Number) []string {
	var out []string
	for _, f := range m.fields {
		if f.num != num {
			continue
		}
		if f.typ != protowire.BytesType {
			m.fail("repeated field %d has wire type %d", num, f.typ)
			return nil
		}
		out = append(out, string(f.b))
	}
	return out
}

func (m message) uints(num protowire.Number) []uint64 {
	var out []uint64
	for _, f := range m.fields {
		if f.num != num {
			continue
		}
		if f.typ != protowire.VarintType {
			m.fail("repeated field %d has wire type %d", num, f.typ)
			return nil
		}
		out = append(out, f.v)
	}
	return out
}

// child parses a nested message field. ok is false when the field is absent.
func (m message) child(num protowire.Number) (message, bool) {
	f, ok := m.last(num, protowire.BytesType)
	if !ok {
		return message{fields: nil, err: m.err}, false
	}
	return m.nested(f.b), true
}

func (m message) children(num protowire.Number) []message {
	var out []message
	for _, f := range m.fields {
		if f.num != num {
			continue
		}
		if f.typ != protowire.BytesType {
			m.fail("repeated field %d has wire type %d", num, f.typ)
			return nil
		}
		out = append(out, m.nested(f.b))
	}
	return out
}

func (m message) nested(b []byte) message {
	c, err := parse(b)
	if err != nil {
		if *m.err == nil {
			*m.err = err
		}
		return message{err: m.err}
	}
	c.err = m.err
	return c
}
