package osc

import (
	"encoding"

	"github.com/pkg/errors"
)

// Packet is the interface for Message and Bundle. It cannot be implemented
// outside this package; a type switch on *Message and *Bundle covers every
// Packet.
type Packet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	appendPacket(b []byte, opts *Options, depth int) ([]byte, error)
}

// Encode serializes a Message or Bundle. Arguments that cannot be typed are
// handled according to opts.Policy, and bundles nested deeper than
// opts.MaxDepth are rejected.
func Encode(p Packet, opts Options) ([]byte, error) {
	if p == nil {
		return nil, errors.Wrap(ErrMalformedPacket, "packet is nil")
	}
	return p.appendPacket(make([]byte, 0, 64), &opts, 1)
}

// Decode parses a single OSC packet. A buffer starting with '#' must be a
// bundle; anything else is decoded as a message, whatever its address looks
// like. The returned packet never aliases data.
func Decode(data []byte, opts Options) (Packet, error) {
	return decodePacket(data, &opts, 1)
}

// ParsePacket parses the given data using the default Options.
func ParsePacket(data []byte) (Packet, error) {
	return Decode(data, Options{})
}

func decodePacket(data []byte, opts *Options, depth int) (Packet, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrMalformedPacket, "empty packet")
	}

	if data[0] == bundleTagString[0] {
		b := &Bundle{}
		if err := b.unmarshal(data, opts, depth); err != nil {
			return nil, err
		}
		return b, nil
	}

	m := &Message{}
	if err := m.unmarshal(data); err != nil {
		return nil, err
	}
	return m, nil
}
