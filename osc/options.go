package osc

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// DefaultMaxDepth is the bundle nesting limit used when Options.MaxDepth is 0.
const DefaultMaxDepth = 64

// Policy decides what the encoder does with an argument whose type cannot be
// determined.
type Policy uint8

const (
	// Strict fails the whole encode with an *UnknownArgumentTypeError.
	Strict Policy = iota
	// Lenient encodes the argument as 'N', which carries no payload.
	Lenient
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	}
	return "unknown"
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "strict":
		*p = Strict
	case "lenient":
		*p = Lenient
	default:
		return errors.Errorf("unknown policy %q", text)
	}
	return nil
}

// Options are passed to every Encode and Decode call. The zero value is strict
// with DefaultMaxDepth.
type Options struct {
	Policy   Policy `yaml:"policy" default:"strict"`
	MaxDepth int    `yaml:"max_depth" default:"64"`
}

func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Policy, validation.In(Strict, Lenient)),
		validation.Field(&o.MaxDepth, validation.Min(0)),
	)
}

func (o *Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
