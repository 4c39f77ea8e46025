package osc

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// Immediate is the reserved time tag (seconds 0, fraction 1) meaning
	// "execute immediately". It is kept distinct from Timetag(0).
	Immediate Timetag = 1

	secondsFrom1900To1970 = 2208988800
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
//
// The raw NTP value is stored and written unchanged, so every bit pattern,
// including Immediate and 0, survives a round trip.
type Timetag uint64

// NewTimetag returns a time tag from its seconds and fraction words.
func NewTimetag(seconds, fraction uint32) Timetag {
	return Timetag(uint64(seconds)<<32 | uint64(fraction))
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time. Times
// outside the NTP era 0 (1900 to 2036) wrap around.
func NewTimetagFromTime(t time.Time) Timetag {
	seconds := uint64(t.Unix()+secondsFrom1900To1970) << 32
	fraction := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Timetag(seconds | fraction)
}

// TimetagNow returns the time tag for the current time.
func TimetagNow() Timetag {
	return NewTimetagFromTime(time.Now())
}

// IsImmediate reports whether t is the Immediate marker.
func (t Timetag) IsImmediate() bool {
	return t == Immediate
}

// Time returns the time. Immediate returns the zero time.Time.
func (t Timetag) Time() time.Time {
	if t.IsImmediate() {
		return time.Time{}
	}
	nanos := (uint64(t.FractionalSecond()) * uint64(time.Second)) >> 32
	return time.Unix(int64(t.SecondsSinceEpoch())-secondsFrom1900To1970, int64(nanos))
}

// FractionalSecond returns the last 32 bits of the OSC time tag. Specifies the
// fractional part of a second.
func (t Timetag) FractionalSecond() uint32 {
	return uint32(t)
}

// SecondsSinceEpoch returns the first 32 bits (the number of seconds since the
// midnight 1900) from the OSC time tag.
func (t Timetag) SecondsSinceEpoch() uint32 {
	return uint32(t >> 32)
}

// ExpiresIn calculates the duration until the time tag is due. It returns
// zero for Immediate and for time tags in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= Immediate {
		return 0
	}

	d := time.Until(t.Time())
	if d <= 0 {
		return 0
	}

	return d
}

// MarshalBinary converts the OSC time tag to a byte array.
func (t Timetag) MarshalBinary() ([]byte, error) {
	return byteOrder.AppendUint64(make([]byte, 0, bit64Size), uint64(t)), nil
}

// UnmarshalBinary reads the time tag from the first 8 bytes of data.
func (t *Timetag) UnmarshalBinary(data []byte) error {
	if len(data) < bit64Size {
		return errors.Wrapf(ErrTruncatedBuffer, "timetag needs %d bytes, %d left", bit64Size, len(data))
	}
	*t = Timetag(byteOrder.Uint64(data))
	return nil
}

func (t Timetag) String() string {
	if t.IsImmediate() {
		return "immediate"
	}
	return t.Time().UTC().Format(time.RFC3339Nano)
}
