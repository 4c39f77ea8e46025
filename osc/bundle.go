package osc

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	bundleTagString = "#bundle"
)

// bundleMarker is the padded "#bundle" OSC-string every bundle starts with.
var bundleMarker = appendPaddedString(nil, bundleTagString)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns a bundle of the given elements to be executed immediately.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: Immediate, Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle. Use this function to create a new OSC Bundle.
func NewBundleWithTime(time time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: elems}
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (b *Bundle, err error) {
	b = &Bundle{}
	if err = b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return errors.Errorf("unsupported OSC packet type %T: only Bundle and Message are supported", pck)

	case *Bundle:
		if t == nil {
			return errors.New("cannot append a nil bundle")
		}
	case *Message:
		if t == nil {
			return errors.New("cannot append a nil message")
		}
	}

	b.Elements = append(b.Elements, pck)
	return nil
}

// String renders the bundle as "#bundle <timetag> [elem; elem]".
func (b *Bundle) String() string {
	if b == nil {
		return "<nil>"
	}
	elems := make([]string, len(b.Elements))
	for i, e := range b.Elements {
		elems[i] = fmt.Sprint(e)
	}
	return fmt.Sprintf("%s %s [%s]", bundleTagString, b.Timetag, strings.Join(elems, "; "))
}

// MarshalBinary implements the encoding.BinaryMarshaler interface using the
// default Options.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return Encode(b, Options{})
}

// appendPacket serializes the bundle into dst with the following format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) appendPacket(dst []byte, opts *Options, depth int) ([]byte, error) {
	if b == nil {
		return nil, errors.Wrap(ErrMalformedPacket, "bundle is nil")
	}
	if depth > opts.maxDepth() {
		return nil, errors.Wrapf(ErrMaxDepthExceeded, "depth %d", depth)
	}

	dst = append(dst, bundleMarker...)
	dst = byteOrder.AppendUint64(dst, uint64(b.Timetag))

	for i, elem := range b.Elements {
		if elem == nil {
			return nil, errors.Wrapf(ErrMalformedPacket, "bundle element %d is nil", i)
		}

		// Reserve the size word and fill it in once the element is written
		sizeAt := len(dst)
		dst = append(dst, 0, 0, 0, 0)

		var err error
		if dst, err = elem.appendPacket(dst, opts, depth+1); err != nil {
			return nil, errors.Wrapf(err, "bundle element %d", i)
		}

		byteOrder.PutUint32(dst[sizeAt:], uint32(len(dst)-sizeAt-bit32Size))
	}

	return dst, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface using
// the default Options.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	return b.unmarshal(data, &Options{}, 1)
}

func (b *Bundle) unmarshal(data []byte, opts *Options, depth int) error {
	if depth > opts.maxDepth() {
		return errors.Wrapf(ErrMaxDepthExceeded, "depth %d", depth)
	}

	// Read the '#bundle' OSC string
	if len(data) < len(bundleMarker) || string(data[:len(bundleMarker)]) != string(bundleMarker) {
		return errors.Wrap(ErrMalformedPacket, "missing #bundle marker")
	}
	data = data[len(bundleMarker):]

	if err := b.Timetag.UnmarshalBinary(data); err != nil {
		return err
	}
	data = data[bit64Size:]

	b.Elements = nil

	// Read until the end of the buffer
	for len(data) > 0 {
		size, err := parseUint32(data, "bundle element size")
		if err != nil {
			return err
		}
		data = data[bit32Size:]

		if uint64(size) > uint64(len(data)) {
			return errors.Wrapf(ErrTruncatedBuffer, "bundle element size %d exceeds remaining %d bytes", size, len(data))
		}
		if size == 0 {
			return errors.Wrapf(ErrMalformedPacket, "bundle element %d is empty", len(b.Elements))
		}

		p, err := decodePacket(data[:size], opts, depth+1)
		if err != nil {
			return errors.Wrapf(err, "bundle element %d", len(b.Elements))
		}
		data = data[size:]

		b.Elements = append(b.Elements, p)
	}

	return nil
}
