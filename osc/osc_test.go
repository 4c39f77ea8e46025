package osc

import (
	"strings"
)

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	return strings.Repeat(zero, i)
}

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"int",
		&Message{Address: "/test", Arguments: []Argument{{Type: TypeInt32, Value: int32(123)}}},
		[]byte("/test" + nulls(3) + ",i" + nulls(2) + "\x00\x00\x00\x7b"),
		false,
	},
	{
		"negative_int",
		&Message{Address: "/neg", Arguments: []Argument{Int(-2)}},
		[]byte("/neg" + nulls(4) + ",i" + nulls(2) + "\xff\xff\xff\xfe"),
		false,
	},
	{
		"float",
		&Message{Address: "/f", Arguments: []Argument{Float(float32(1.5))}},
		[]byte("/f" + nulls(2) + ",f" + nulls(2) + "\x3f\xc0\x00\x00"),
		false,
	},
	{
		"string",
		&Message{Address: "/s", Arguments: []Argument{StringArg("testing")}},
		[]byte("/s" + nulls(2) + ",s" + nulls(2) + "testing" + nulls(1)),
		false,
	},
	{
		"empty_string",
		&Message{Address: "/s", Arguments: []Argument{StringArg("")}},
		[]byte("/s" + nulls(2) + ",s" + nulls(2) + nulls(4)),
		false,
	},
	{
		"emoji_string",
		&Message{Address: "/e", Arguments: []Argument{StringArg("\U0001F600")}},
		[]byte("/e" + nulls(2) + ",s" + nulls(2) + "\xf0\x9f\x98\x80" + nulls(4)),
		false,
	},
	{
		"blob",
		&Message{Address: "/b", Arguments: []Argument{BlobArg([]byte{1, 2, 3})}},
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x03\x01\x02\x03" + nulls(1)),
		false,
	},
	{
		"empty_blob",
		&Message{Address: "/b", Arguments: []Argument{BlobArg([]byte{})}},
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + nulls(4)),
		false,
	},
	{
		"false",
		&Message{Address: "/b", Arguments: []Argument{BoolArg(false)}},
		[]byte("/b" + nulls(2) + ",F" + nulls(2)),
		false,
	},
	{
		"true_nil",
		&Message{Address: "/b", Arguments: []Argument{BoolArg(true), NilArg()}},
		[]byte("/b" + nulls(2) + ",TN" + nulls(1)),
		false,
	},
	{
		"midi",
		&Message{Address: "/m", Arguments: []Argument{MIDIArg(NewMIDI(0, 0x90, 0x3c, 0x64))}},
		[]byte("/m" + nulls(2) + ",m" + nulls(2) + "\x00\x90\x3c\x64"),
		false,
	},
	{
		"no_args",
		&Message{Address: "/a"},
		[]byte("/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"aligned_address",
		&Message{Address: "/abc"},
		[]byte("/abc" + nulls(4) + "," + nulls(3)),
		false,
	},
	{
		"mixed",
		&Message{Address: "/mix", Arguments: []Argument{Int(1), StringArg("ab"), Float(float32(0)), BoolArg(true)}},
		[]byte("/mix" + nulls(4) + ",isfT" + nulls(3) + "\x00\x00\x00\x01" + "ab" + nulls(2) + nulls(4)),
		false,
	},
}

var bundleTestCases = []testCase{
	{
		"empty_immediate",
		&Bundle{Timetag: Immediate},
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x01"),
		false,
	},
	{
		"two_messages",
		&Bundle{Timetag: 0, Elements: []Packet{&Message{Address: "/a"}, &Message{Address: "/b"}}},
		[]byte("#bundle" + nulls(1) + nulls(8) +
			"\x00\x00\x00\x08" + "/a" + nulls(2) + "," + nulls(3) +
			"\x00\x00\x00\x08" + "/b" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"nested",
		&Bundle{Timetag: NewTimetag(1, 2), Elements: []Packet{
			&Bundle{Timetag: Immediate, Elements: []Packet{
				&Message{Address: "/c", Arguments: []Argument{Int(7)}},
			}},
		}},
		[]byte("#bundle" + nulls(1) + "\x00\x00\x00\x01\x00\x00\x00\x02" +
			"\x00\x00\x00\x20" +
			"#bundle" + nulls(1) + nulls(7) + "\x01" +
			"\x00\x00\x00\x0c" + "/c" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x07"),
		false,
	},
}
