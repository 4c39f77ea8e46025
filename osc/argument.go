package osc

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"

	"golang.org/x/exp/constraints"
)

// MIDI is an OSC MIDI message: port id, status byte, data1 and data2.
type MIDI [4]byte

// NewMIDI returns a MIDI word from its four components.
func NewMIDI(port, status, data1, data2 byte) MIDI {
	return MIDI{port, status, data1, data2}
}

func (m MIDI) Port() byte   { return m[0] }
func (m MIDI) Status() byte { return m[1] }
func (m MIDI) Data1() byte  { return m[2] }
func (m MIDI) Data2() byte  { return m[3] }

// Argument is a single typed OSC argument. A normalized Argument holds one of
// the following Values, depending on Type:
//
//	TypeInt32    int32
//	TypeFloat32  float32
//	TypeString   string
//	TypeBlob     []byte (never nil)
//	TypeTrue     true
//	TypeFalse    false
//	TypeNil      nil
//	TypeMIDI     MIDI
//
// An Argument with TypeInvalid is untyped; its Value is run through Infer when
// the message is encoded.
type Argument struct {
	Type  TypeTag
	Value interface{}
}

// Int returns an int32 argument. Values outside the int32 range produce an
// untyped argument that fails to encode in strict mode.
func Int[T constraints.Integer](v T) Argument {
	i, ok := toInt32(v)
	if !ok {
		return Argument{Value: v}
	}
	return Argument{Type: TypeInt32, Value: i}
}

// Float returns a float32 argument. float64 values lose precision.
func Float[T constraints.Float](v T) Argument {
	return Argument{Type: TypeFloat32, Value: float32(v)}
}

func StringArg(s string) Argument {
	return Argument{Type: TypeString, Value: s}
}

func BlobArg(b []byte) Argument {
	if b == nil {
		b = []byte{}
	}
	return Argument{Type: TypeBlob, Value: b}
}

func BoolArg(b bool) Argument {
	if b {
		return Argument{Type: TypeTrue, Value: true}
	}
	return Argument{Type: TypeFalse, Value: false}
}

func NilArg() Argument {
	return Argument{Type: TypeNil}
}

func MIDIArg(m MIDI) Argument {
	return Argument{Type: TypeMIDI, Value: m}
}

// NewArgument builds an argument from an explicit type name and a value,
// bypassing inference. typ may be a single letter tag or a long name (see
// ParseTypeTag); "bool" and "boolean" pick T or F from the value.
func NewArgument(typ string, value interface{}) (Argument, error) {
	if isBoolAlias(typ) {
		b, ok := value.(bool)
		if !ok {
			return Argument{}, &UnknownArgumentTypeError{Type: fmt.Sprintf("%s(%T)", typ, value)}
		}
		return BoolArg(b), nil
	}

	tag, err := ParseTypeTag(typ)
	if err != nil {
		return Argument{}, err
	}

	return Argument{Type: tag, Value: value}.normalize()
}

// normalize converts Value into the canonical Go type for Type. Untyped
// arguments are inferred from their Value.
func (a Argument) normalize() (Argument, error) {
	switch a.Type {
	case TypeInvalid:
		return Infer(a.Value)

	case TypeInt32:
		if i, ok := anyToInt32(a.Value); ok {
			return Argument{Type: TypeInt32, Value: i}, nil
		}

	case TypeFloat32:
		if f, ok := anyToFloat32(a.Value); ok {
			return Argument{Type: TypeFloat32, Value: f}, nil
		}

	case TypeString:
		if s, ok := a.Value.(string); ok {
			if strings.IndexByte(s, 0) != -1 {
				return Argument{}, &UnknownArgumentTypeError{Type: "string containing NUL"}
			}
			return StringArg(s), nil
		}

	case TypeBlob:
		if b, ok := a.Value.([]byte); ok {
			return BlobArg(b), nil
		}

	case TypeTrue, TypeFalse:
		want := a.Type == TypeTrue
		if b, ok := a.Value.(bool); ok && b != want {
			return Argument{}, &UnknownArgumentTypeError{Type: fmt.Sprintf("%s(%t)", a.Type, b)}
		}
		return BoolArg(want), nil

	case TypeNil:
		return NilArg(), nil

	case TypeMIDI:
		switch m := a.Value.(type) {
		case MIDI:
			return MIDIArg(m), nil
		case [4]byte:
			return MIDIArg(m), nil
		case []byte:
			if len(m) != len(MIDI{}) {
				return Argument{}, ErrInvalidMIDI
			}
			return MIDIArg(NewMIDI(m[0], m[1], m[2], m[3])), nil
		}

	default:
		return Argument{}, &UnknownArgumentTypeError{Type: a.Type.String()}
	}

	return Argument{}, &UnknownArgumentTypeError{Type: fmt.Sprintf("%s(%T)", a.Type, a.Value)}
}

// appendPayload appends the wire payload of a normalized argument.
func (a Argument) appendPayload(b []byte) []byte {
	switch a.Type {
	case TypeInt32:
		return byteOrder.AppendUint32(b, uint32(a.Value.(int32)))
	case TypeFloat32:
		return byteOrder.AppendUint32(b, math.Float32bits(a.Value.(float32)))
	case TypeString:
		return appendPaddedString(b, a.Value.(string))
	case TypeBlob:
		return appendBlob(b, a.Value.([]byte))
	case TypeMIDI:
		m := a.Value.(MIDI)
		return append(b, m[:]...)
	}
	return b
}

// Equal reports whether a and o have the same type and value.
func (a Argument) Equal(o Argument) bool {
	if a.Type != o.Type {
		return false
	}
	if ab, ok := a.Value.([]byte); ok {
		ob, ok := o.Value.([]byte)
		return ok && bytes.Equal(ab, ob)
	}
	return reflect.DeepEqual(a.Value, o.Value)
}

func (a Argument) String() string {
	switch a.Type {
	case TypeNil:
		return "Nil"
	case TypeBlob:
		if b, ok := a.Value.([]byte); ok {
			return fmt.Sprintf("blob(%d)", len(b))
		}
	case TypeMIDI:
		if m, ok := a.Value.(MIDI); ok {
			return fmt.Sprintf("midi(% x)", m[:])
		}
	}
	return fmt.Sprintf("%v", a.Value)
}

func toInt32[T constraints.Integer](v T) (int32, bool) {
	if v < 0 {
		return int32(v), int64(v) >= math.MinInt32
	}
	return int32(v), uint64(v) <= math.MaxInt32
}

func anyToInt32(v interface{}) (int32, bool) {
	switch t := v.(type) {
	case int:
		return toInt32(t)
	case int8:
		return toInt32(t)
	case int16:
		return toInt32(t)
	case int32:
		return t, true
	case int64:
		return toInt32(t)
	case uint:
		return toInt32(t)
	case uint8:
		return toInt32(t)
	case uint16:
		return toInt32(t)
	case uint32:
		return toInt32(t)
	case uint64:
		return toInt32(t)
	case float32:
		if float32(int32(t)) == t {
			return int32(t), true
		}
	case float64:
		if t >= math.MinInt32 && t <= math.MaxInt32 && math.Trunc(t) == t {
			return int32(t), true
		}
	}
	return 0, false
}

func anyToFloat32(v interface{}) (float32, bool) {
	switch t := v.(type) {
	case float32:
		return t, true
	case float64:
		return float32(t), true
	}
	if i, ok := anyToInt32(v); ok {
		return float32(i), true
	}
	return 0, false
}
