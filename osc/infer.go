package osc

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// explicitArgument is the map form of an explicit type override, e.g.
// {"type": "integer", "value": 5}.
type explicitArgument struct {
	Type  string      `mapstructure:"type"`
	Value interface{} `mapstructure:"value"`
}

// Infer maps a native Go value to a typed argument:
//
//	int, int8..int64, uint..uint64   'i' (must fit in int32)
//	float32, float64                 'f' (float64 degrades to float32)
//	string                           's'
//	[]byte                           'b'
//	bool                             'T' or 'F'
//	MIDI                             'm'
//	Argument                         normalized as is
//	map[string]interface{}           explicit {"type", "value"} override
//
// There is no native value for 'N'; use NilArg or an explicit override.
// Anything else fails with an *UnknownArgumentTypeError.
func Infer(v interface{}) (Argument, error) {
	switch t := v.(type) {
	case Argument:
		return t.normalize()
	case *Argument:
		if t == nil {
			return Argument{}, unknownType(v)
		}
		return t.normalize()

	case bool:
		return BoolArg(t), nil
	case int:
		return inferInt(t)
	case int8:
		return inferInt(t)
	case int16:
		return inferInt(t)
	case int32:
		return inferInt(t)
	case int64:
		return inferInt(t)
	case uint:
		return inferInt(t)
	case uint8:
		return inferInt(t)
	case uint16:
		return inferInt(t)
	case uint32:
		return inferInt(t)
	case uint64:
		return inferInt(t)
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	case string:
		return Argument{Type: TypeString, Value: t}.normalize()
	case []byte:
		return BlobArg(t), nil
	case MIDI:
		return MIDIArg(t), nil

	case map[string]interface{}:
		return inferExplicit(t)
	}

	return Argument{}, unknownType(v)
}

// Arg is Infer without the error: values that cannot be inferred are kept as
// untyped arguments and judged by the encoding Policy.
func Arg(v interface{}) Argument {
	a, err := Infer(v)
	if err != nil {
		return Argument{Value: v}
	}
	return a
}

func inferInt[T constraints.Integer](v T) (Argument, error) {
	a := Int(v)
	if a.Type == TypeInvalid {
		return Argument{}, &UnknownArgumentTypeError{Type: "integer out of int32 range"}
	}
	return a, nil
}

func inferExplicit(m map[string]interface{}) (Argument, error) {
	var e explicitArgument
	if err := mapstructure.Decode(m, &e); err != nil {
		return Argument{}, errors.Wrap(unknownType(m), err.Error())
	}
	if e.Type == "" {
		return Argument{}, &UnknownArgumentTypeError{Type: "map without type"}
	}
	return NewArgument(e.Type, e.Value)
}
