package osc

import (
	"math"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// packetMap is the generic map form of a packet. Messages carry "address" and
// "args"; bundles carry "timetag" and "elements".
type packetMap struct {
	Address  *string       `mapstructure:"address"`
	Args     []interface{} `mapstructure:"args"`
	Timetag  interface{}   `mapstructure:"timetag"`
	Elements []interface{} `mapstructure:"elements"`
}

// FromMap builds a packet from its generic map form, as produced by JSON or
// YAML decoders:
//
//	{"address": "/a/b", "args": [1, "x", {"type": "midi", "value": [0, 144, 60, 100]}]}
//	{"timetag": 1700000000.5, "elements": [{...}, {...}]}
//
// Arguments go through Arg, so untypeable values are judged by the Policy when
// the packet is encoded. Bundle elements may be maps or ready made packets.
func FromMap(v map[string]interface{}) (Packet, error) {
	return fromMap(v, 1)
}

func fromMap(v map[string]interface{}, depth int) (Packet, error) {
	if depth > DefaultMaxDepth {
		return nil, errors.Wrapf(ErrMaxDepthExceeded, "depth %d", depth)
	}

	var pm packetMap
	if err := mapstructure.Decode(v, &pm); err != nil {
		return nil, errors.Wrap(ErrMalformedPacket, err.Error())
	}

	if pm.Address != nil {
		m := &Message{Address: *pm.Address}
		for _, a := range pm.Args {
			m.Arguments = append(m.Arguments, argFromMapValue(a))
		}
		return m, nil
	}

	if pm.Elements == nil && pm.Timetag == nil {
		return nil, errors.Wrap(ErrMalformedPacket, "map has neither address nor elements")
	}

	tt, err := toTimetag(pm.Timetag)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Timetag: tt}
	for i, e := range pm.Elements {
		switch e := e.(type) {
		case Packet:
			b.Elements = append(b.Elements, e)
		case map[string]interface{}:
			p, err := fromMap(e, depth+1)
			if err != nil {
				return nil, errors.Wrapf(err, "bundle element %d", i)
			}
			b.Elements = append(b.Elements, p)
		default:
			return nil, errors.Wrapf(ErrMalformedPacket, "bundle element %d has unsupported type %T", i, e)
		}
	}

	return b, nil
}

// argFromMapValue handles the shapes generic decoders produce for explicit
// overrides, where a MIDI or blob value arrives as a list of numbers.
func argFromMapValue(v interface{}) Argument {
	if m, ok := v.(map[string]interface{}); ok {
		if list, ok := m["value"].([]interface{}); ok {
			if b, ok := bytesFromList(list); ok {
				override := make(map[string]interface{}, len(m))
				for k, val := range m {
					override[k] = val
				}
				override["value"] = b
				return Arg(override)
			}
		}
	}
	return Arg(v)
}

func bytesFromList(list []interface{}) ([]byte, bool) {
	b := make([]byte, len(list))
	for i, v := range list {
		n, ok := anyToInt32(v)
		if !ok || n < 0 || n > math.MaxUint8 {
			return nil, false
		}
		b[i] = byte(n)
	}
	return b, true
}

// toTimetag accepts a Timetag, a raw uint64, a time.Time, a Unix time in
// seconds, or nothing at all for Immediate.
func toTimetag(v interface{}) (Timetag, error) {
	switch t := v.(type) {
	case nil:
		return Immediate, nil
	case Timetag:
		return t, nil
	case uint64:
		return Timetag(t), nil
	case time.Time:
		return NewTimetagFromTime(t), nil
	case int:
		return NewTimetagFromTime(time.Unix(int64(t), 0)), nil
	case int64:
		return NewTimetagFromTime(time.Unix(t, 0)), nil
	case float64:
		sec, frac := math.Modf(t)
		return NewTimetagFromTime(time.Unix(int64(sec), int64(frac*float64(time.Second)))), nil
	}
	return 0, errors.Wrapf(ErrMalformedPacket, "unsupported timetag %T", v)
}
