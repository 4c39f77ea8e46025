package osc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMalformedPacket     = errors.New("malformed packet")
	ErrUnsupportedTypeTag  = errors.New("unsupported type tag")
	ErrUnknownArgumentType = errors.New("unknown argument type")
	ErrTruncatedBuffer     = errors.New("truncated buffer")
	ErrMaxDepthExceeded    = errors.WithMessage(ErrMalformedPacket, "bundle nesting too deep")
	ErrInvalidMIDI         = errors.New("midi argument must be exactly 4 bytes")
)

// UnsupportedTypeTagError is returned when a decoded type tag string contains a
// tag outside the supported set.
type UnsupportedTypeTagError struct {
	Tag byte
}

func (e *UnsupportedTypeTagError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedTypeTag, e.Tag)
}

func (e *UnsupportedTypeTagError) Unwrap() error {
	return ErrUnsupportedTypeTag
}

// UnknownArgumentTypeError is returned when an argument cannot be serialized.
// Type describes the offending value or explicit type name.
type UnknownArgumentTypeError struct {
	Type string
}

func (e *UnknownArgumentTypeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownArgumentType, e.Type)
}

func (e *UnknownArgumentTypeError) Unwrap() error {
	return ErrUnknownArgumentType
}

func unknownType(v interface{}) error {
	return &UnknownArgumentTypeError{Type: fmt.Sprintf("%T", v)}
}
