package osc

import (
	"strings"
)

// TypeTag identifies the wire type of a single OSC argument.
type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeTrue    TypeTag = 'T'
	TypeFalse   TypeTag = 'F'
	TypeNil     TypeTag = 'N'
	TypeMIDI    TypeTag = 'm'
	TypeInvalid TypeTag = 0
)

// typeAliases maps every accepted spelling of a type to its tag. Single letter
// tags are case sensitive; long names are matched in lower case. Doubles are
// accepted but degrade to float32 on the wire.
var typeAliases = map[string]TypeTag{
	"i":       TypeInt32,
	"int":     TypeInt32,
	"int32":   TypeInt32,
	"integer": TypeInt32,
	"f":       TypeFloat32,
	"float":   TypeFloat32,
	"float32": TypeFloat32,
	"d":       TypeFloat32,
	"double":  TypeFloat32,
	"float64": TypeFloat32,
	"s":       TypeString,
	"string":  TypeString,
	"b":       TypeBlob,
	"blob":    TypeBlob,
	"bytes":   TypeBlob,
	"T":       TypeTrue,
	"true":    TypeTrue,
	"F":       TypeFalse,
	"false":   TypeFalse,
	"N":       TypeNil,
	"nil":     TypeNil,
	"null":    TypeNil,
	"m":       TypeMIDI,
	"midi":    TypeMIDI,
}

// ParseTypeTag normalizes a type name or single letter tag. "bool" and
// "boolean" are not accepted here since their tag depends on the value; use
// NewArgument for those.
func ParseTypeTag(name string) (TypeTag, error) {
	if len(name) > 1 {
		name = strings.ToLower(name)
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return TypeInvalid, &UnknownArgumentTypeError{Type: name}
}

func isBoolAlias(name string) bool {
	switch strings.ToLower(name) {
	case "bool", "boolean":
		return true
	}
	return false
}

// Supported reports whether t can appear on the wire.
func (t TypeTag) Supported() bool {
	switch t {
	case TypeInt32, TypeFloat32, TypeString, TypeBlob, TypeTrue, TypeFalse, TypeNil, TypeMIDI:
		return true
	}
	return false
}

// payloadSize returns the fixed payload size of t, or -1 for variable sized
// types.
func (t TypeTag) payloadSize() int {
	switch t {
	case TypeInt32, TypeFloat32, TypeMIDI:
		return bit32Size
	case TypeTrue, TypeFalse, TypeNil:
		return 0
	}
	return -1
}

func (t TypeTag) String() string {
	switch t {
	case TypeInt32:
		return "int32"
	case TypeFloat32:
		return "float32"
	case TypeString:
		return "string"
	case TypeBlob:
		return "blob"
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeNil:
		return "nil"
	case TypeMIDI:
		return "midi"
	case TypeInvalid:
		return "invalid"
	}
	return string(rune(t))
}
