package osc

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []Argument
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
// Each argument goes through Arg, so values that cannot be inferred are kept
// untyped and only rejected when the message is encoded.
func NewMessage(addr string, args ...interface{}) *Message {
	m := &Message{Address: addr}
	for _, a := range args {
		m.Arguments = append(m.Arguments, Arg(a))
	}
	return m
}

// NewMessageFromData decodes a message using the default Options.
func NewMessageFromData(data []byte) (msg *Message, err error) {
	msg = &Message{}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// Append infers and appends the given arguments. If any of them cannot be
// inferred, nothing is appended.
func (m *Message) Append(args ...interface{}) error {
	typed := make([]Argument, 0, len(args))
	for _, a := range args {
		arg, err := Infer(a)
		if err != nil {
			return err
		}
		typed = append(typed, arg)
	}
	m.Arguments = append(m.Arguments, typed...)
	return nil
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string, including the leading ','.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}

	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, a := range m.Arguments {
		arg, err := a.normalize()
		if err != nil {
			return "", err
		}
		tags = append(tags, byte(arg.Type))
	}

	return string(tags), nil
}

// Equal reports whether m and o have the same address and arguments.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Address != o.Address || len(m.Arguments) != len(o.Arguments) {
		return false
	}
	for i := range m.Arguments {
		if !m.Arguments[i].Equal(o.Arguments[i]) {
			return false
		}
	}
	return true
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.Address)

	tags, err := m.TypeTags()
	if err != nil || len(tags) == 1 {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(tags)
	for _, a := range m.Arguments {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface using the
// default Options.
func (m *Message) MarshalBinary() ([]byte, error) {
	return Encode(m, Options{})
}

// appendPacket serializes the message into b. The layout is:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) appendPacket(b []byte, opts *Options, _ int) ([]byte, error) {
	if m == nil {
		return nil, errors.Wrap(ErrMalformedPacket, "message is nil")
	}
	if strings.IndexByte(m.Address, 0) != -1 {
		return nil, errors.Wrapf(ErrMalformedPacket, "address %q contains a NUL byte", m.Address)
	}
	if strings.HasPrefix(m.Address, "#") {
		return nil, errors.Wrapf(ErrMalformedPacket, "address %q starts with '#', which marks a bundle", m.Address)
	}

	args := make([]Argument, len(m.Arguments))
	for i, a := range m.Arguments {
		arg, err := a.normalize()
		if err != nil {
			if opts.Policy != Lenient || !errors.Is(err, ErrUnknownArgumentType) {
				return nil, errors.Wrapf(err, "%s: argument %d", m.Address, i)
			}
			arg = NilArg()
		}
		args[i] = arg
	}

	b = appendPaddedString(b, m.Address)

	b = append(b, ',')
	for _, a := range args {
		b = append(b, byte(a.Type))
	}
	b = append(b, 0)
	b = appendPadding(b, len(args)+2)

	for _, a := range args {
		b = a.appendPayload(b)
	}

	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface using
// the default Options.
func (m *Message) UnmarshalBinary(data []byte) error {
	return m.unmarshal(data)
}

func (m *Message) unmarshal(data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(ErrMalformedPacket, "empty message")
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "address")
	}
	data = data[n:]

	m.Address = addr
	m.Arguments = nil

	// Senders predating OSC 1.0 may omit the type tag string entirely.
	if len(data) == 0 {
		return nil
	}

	return m.readArguments(data)
}

// readArguments reads the type tag string and the arguments it describes.
func (m *Message) readArguments(data []byte) error {
	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "type tag string")
	}
	data = data[n:]

	// If the typetag doesn't start with ',', it's not valid
	if len(typetags) == 0 || typetags[0] != ',' {
		return errors.Wrapf(ErrMalformedPacket, "type tag string %q does not start with ','", typetags)
	}

	if len(typetags) == 1 {
		return nil
	}

	m.Arguments = make([]Argument, 0, len(typetags)-1)
	for i := 1; i < len(typetags); i++ {
		arg, n, err := parseArgument(TypeTag(typetags[i]), data)
		if err != nil {
			return errors.Wrapf(err, "%s: argument %d", m.Address, i-1)
		}
		data = data[n:]
		m.Arguments = append(m.Arguments, arg)
	}

	return nil
}

// parseArgument decodes one argument of type tag from the start of data and
// returns the number of bytes consumed.
func parseArgument(tag TypeTag, data []byte) (Argument, int, error) {
	if !tag.Supported() {
		return Argument{}, 0, &UnsupportedTypeTagError{Tag: byte(tag)}
	}
	if n := tag.payloadSize(); n > len(data) {
		return Argument{}, 0, errors.Wrapf(ErrTruncatedBuffer, "%s needs %d bytes, %d left", tag, n, len(data))
	}

	switch tag {
	case TypeInt32:
		return Argument{Type: TypeInt32, Value: int32(byteOrder.Uint32(data))}, bit32Size, nil

	case TypeFloat32:
		return Float(math.Float32frombits(byteOrder.Uint32(data))), bit32Size, nil

	case TypeString:
		s, n, err := parsePaddedString(data)
		if err != nil {
			return Argument{}, 0, err
		}
		return StringArg(s), n, nil

	case TypeBlob:
		b, n, err := parseBlob(data)
		if err != nil {
			return Argument{}, 0, err
		}
		return BlobArg(b), n, nil

	case TypeMIDI:
		return MIDIArg(NewMIDI(data[0], data[1], data[2], data[3])), bit32Size, nil

	case TypeTrue:
		return BoolArg(true), 0, nil

	case TypeFalse:
		return BoolArg(false), 0, nil
	}

	return NilArg(), 0, nil
}
