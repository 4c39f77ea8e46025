package osc

import (
	"reflect"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

var temp = NewMessage("/composition/layers/1/clips/1/transport/position", 0.123456789, "hello world")
var msg, _ = temp.MarshalBinary()

func BenchmarkParsePacket(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()
	var p Packet
	for n := 0; n < b.N; n++ {
		p, _ = ParsePacket(msg)
	}
	result = p
}

func TestParsePacket(t *testing.T) {
	tests := []testCase{}
	tests = append(tests, messageTestCases...)
	tests = append(tests, bundleTestCases...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePacket(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePacket() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.obj) {
				t.Errorf("ParsePacket() got = %v, want %v", got, tt.obj)
			}
		})
	}
}

func TestParsePacketErrors(t *testing.T) {
	timetag := nulls(7) + "\x01"
	for _, tt := range []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", ErrMalformedPacket},
		{"address_without_nul", "/test", ErrMalformedPacket},
		{"address_padding_missing", "/abc" + zero, ErrMalformedPacket},
		{"type_tags_without_nul", "/test" + nulls(3) + ",i", ErrMalformedPacket},
		{"type_tags_without_comma", "/a" + nulls(2) + "i" + nulls(3) + "\x00\x00\x00\x01", ErrMalformedPacket},
		{"unsupported_tag", "/a" + nulls(2) + ",X" + nulls(2), ErrUnsupportedTypeTag},
		{"int64_not_supported", "/a" + nulls(2) + ",h" + nulls(2) + nulls(8), ErrUnsupportedTypeTag},
		{"int_missing", "/a" + nulls(2) + ",i" + nulls(2), ErrTruncatedBuffer},
		{"float_short", "/a" + nulls(2) + ",f" + nulls(2) + "\x3f\xc0", ErrTruncatedBuffer},
		{"midi_short", "/a" + nulls(2) + ",m" + nulls(2) + "\x00\x90\x3c", ErrTruncatedBuffer},
		{"string_arg_without_nul", "/a" + nulls(2) + ",s" + nulls(2) + "abcd", ErrMalformedPacket},
		{"blob_length_past_end", "/a" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x10\x01\x02" + nulls(2), ErrTruncatedBuffer},
		{"blob_padding_past_end", "/a" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x02\x01\x02", ErrTruncatedBuffer},
		{"blob_prefix_short", "/a" + nulls(2) + ",b" + nulls(2) + "\x00\x00", ErrTruncatedBuffer},
		{"bundle_marker_truncated", "#bund", ErrMalformedPacket},
		{"bundle_marker_wrong", "#bundlx" + zero + timetag, ErrMalformedPacket},
		{"bundle_timetag_short", "#bundle" + zero + nulls(4), ErrTruncatedBuffer},
		{"bundle_size_dangling", "#bundle" + zero + timetag + "\x00\x00", ErrTruncatedBuffer},
		{"bundle_size_past_end", "#bundle" + zero + timetag + "\x00\x00\x00\x40" + "/a" + nulls(2) + "," + nulls(3), ErrTruncatedBuffer},
		{"bundle_size_negative", "#bundle" + zero + timetag + "\xff\xff\xff\xf8" + "/a" + nulls(2) + "," + nulls(3), ErrTruncatedBuffer},
		{"bundle_empty_element", "#bundle" + zero + timetag + "\x00\x00\x00\x00", ErrMalformedPacket},
		{"bundle_bad_element", "#bundle" + zero + timetag + "\x00\x00\x00\x08" + "/a" + nulls(2) + ",X" + nulls(2), ErrUnsupportedTypeTag},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePacket([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParsePacket() error = %v, want %v", err, tt.want)
			}
			if p != nil {
				t.Errorf("ParsePacket() returned %v with an error", p)
			}

			// The same bytes must always fail the same way
			_, again := ParsePacket([]byte(tt.raw))
			if again == nil || again.Error() != err.Error() {
				t.Errorf("second ParsePacket() error = %v, first = %v", again, err)
			}
		})
	}
}

func TestParsePacketUnsupportedTagNamesTag(t *testing.T) {
	_, err := ParsePacket([]byte("/a" + nulls(2) + ",iX" + nulls(1) + "\x00\x00\x00\x01"))
	var tagErr *UnsupportedTypeTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("ParsePacket() error = %v, want UnsupportedTypeTagError", err)
	}
	if tagErr.Tag != 'X' {
		t.Errorf("UnsupportedTypeTagError.Tag = %q, want 'X'", tagErr.Tag)
	}
}

func TestParsePacketWithoutTypeTags(t *testing.T) {
	p, err := ParsePacket([]byte("/old" + nulls(4)))
	if err != nil {
		t.Fatal(err)
	}
	if m := p.(*Message); m.Address != "/old" || len(m.Arguments) != 0 {
		t.Errorf("ParsePacket() = %v", m)
	}
}

func TestParsePacketDoesNotAlias(t *testing.T) {
	raw, _ := NewMessage("/alias", "str", []byte{1, 2, 3, 4}).MarshalBinary()
	p, err := ParsePacket(raw)
	if err != nil {
		t.Fatal(err)
	}
	for i := range raw {
		raw[i] = 0xff
	}
	want := NewMessage("/alias", "str", []byte{1, 2, 3, 4})
	if !p.(*Message).Equal(want) {
		t.Errorf("decoded packet changed with its input: %v", p)
	}
}

func TestEncodeNil(t *testing.T) {
	if _, err := Encode(nil, Options{}); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("Encode(nil) error = %v", err)
	}
	if _, err := Encode(NewBundle(nil), Options{}); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("Encode(bundle with nil) error = %v", err)
	}
	if _, err := Encode(NewBundle((*Message)(nil)), Options{}); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("Encode(bundle with nil message) error = %v", err)
	}
}

func TestConcurrentCodec(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := NewBundle(NewMessage("/worker", int32(i), "payload", []byte{byte(i)}))
			for n := 0; n < 100; n++ {
				raw, err := want.MarshalBinary()
				if err != nil {
					t.Error(err)
					return
				}
				got, err := ParsePacket(raw)
				if err != nil {
					t.Error(err)
					return
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("got %v, want %v", got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func FuzzParsePacket(f *testing.F) {
	for _, tc := range bundleTestCases {
		f.Add(tc.raw)
	}
	for _, tc := range messageTestCases {
		f.Add(tc.raw)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		packet, err := ParsePacket(data)
		if err != nil {
			return
		}

		dataNew, err := packet.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(): err != nil on parsed packet %#v: %v", packet, err)
		}

		packet, err = ParsePacket(dataNew)
		if err != nil {
			t.Fatalf("ParsePacket(): err != nil on marshaled packet %#v: %v", packet, err)
		}

		dataNew2, err := packet.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(): err != nil on double-parsed packet %#v: %v", packet, err)
		}

		if !reflect.DeepEqual(dataNew, dataNew2) {
			t.Fatalf("dataNew != dataNew2: dataNew: %s %v\ndataNew2: %s %v\npacket: %v\n", dataNew, dataNew, dataNew2, dataNew2, packet)
		}
	})
}
