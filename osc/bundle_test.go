package osc

import (
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestBundle_MarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = % x, want % x", got, tt.raw)
			}
		})
	}
}

func TestBundle_UnmarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Bundle)
			if err := m.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(m, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", m, tt.obj)
			}
		})
	}
}

func TestBundle_Append(t *testing.T) {
	b := NewBundle()
	if err := b.Append(NewMessage("/a")); err != nil {
		t.Errorf("Append(message) error = %v", err)
	}
	if err := b.Append(NewBundle()); err != nil {
		t.Errorf("Append(bundle) error = %v", err)
	}
	if err := b.Append(nil); err == nil {
		t.Error("Append(nil) should fail")
	}
	if err := b.Append((*Message)(nil)); err == nil {
		t.Error("Append(nil message) should fail")
	}
	if len(b.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(b.Elements))
	}
}

func TestBundleOrderAndNesting(t *testing.T) {
	inner := NewBundle(NewMessage("/inner/1", int32(1)), NewMessage("/inner/2", "two"))
	outer := NewBundleWithTime(time.Unix(1700000000, 0),
		NewMessage("/first"),
		inner,
		NewMessage("/last", true),
	)

	raw, err := outer.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	got, err := NewBundleFromData(raw)
	if err != nil {
		t.Fatal(err)
	}

	if got.Timetag != outer.Timetag {
		t.Errorf("Timetag = %v, want %v", got.Timetag, outer.Timetag)
	}
	if len(got.Elements) != 3 {
		t.Fatalf("len(Elements) = %d, want 3", len(got.Elements))
	}
	if m, ok := got.Elements[0].(*Message); !ok || m.Address != "/first" {
		t.Errorf("Elements[0] = %v", got.Elements[0])
	}
	b, ok := got.Elements[1].(*Bundle)
	if !ok || !b.Timetag.IsImmediate() || len(b.Elements) != 2 {
		t.Fatalf("Elements[1] = %v", got.Elements[1])
	}
	if m := b.Elements[1].(*Message); !m.Equal(NewMessage("/inner/2", "two")) {
		t.Errorf("inner Elements[1] = %v", m)
	}
	if m, ok := got.Elements[2].(*Message); !ok || m.Address != "/last" {
		t.Errorf("Elements[2] = %v", got.Elements[2])
	}
}

func TestBundleImmediateAndZeroStayDistinct(t *testing.T) {
	for _, tt := range []Timetag{0, Immediate, NewTimetag(0, 2)} {
		raw, err := (&Bundle{Timetag: tt}).MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		got, err := NewBundleFromData(raw)
		if err != nil {
			t.Fatal(err)
		}
		if got.Timetag != tt {
			t.Errorf("Timetag %d decoded as %d", tt, got.Timetag)
		}
		if got.Timetag.IsImmediate() != (tt == Immediate) {
			t.Errorf("Timetag %d IsImmediate() = %t", tt, got.Timetag.IsImmediate())
		}
	}
}

// nest wraps p in depth bundles.
func nest(p Packet, depth int) Packet {
	for i := 0; i < depth; i++ {
		p = NewBundle(p)
	}
	return p
}

func TestBundleMaxDepth(t *testing.T) {
	deep := nest(NewMessage("/deep"), DefaultMaxDepth+1)
	if _, err := Encode(deep, Options{}); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Encode() error = %v, want ErrMaxDepthExceeded", err)
	}

	ok := nest(NewMessage("/deep"), 3)
	raw, err := Encode(ok, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decode(raw, Options{MaxDepth: 2}); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Decode() error = %v, want ErrMaxDepthExceeded", err)
	}
	if !errors.Is(ErrMaxDepthExceeded, ErrMalformedPacket) {
		t.Error("ErrMaxDepthExceeded should be a malformed packet")
	}

	got, err := Decode(raw, Options{MaxDepth: 3})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, ok) {
		t.Errorf("Decode() got = %v, want %v", got, ok)
	}
}

func TestBundle_String(t *testing.T) {
	b := NewBundle(NewMessage("/a", int32(1)), NewBundleWithTime(time.Unix(0, 0).UTC(), NewMessage("/b")))
	want := "#bundle immediate [/a ,i 1; #bundle 1970-01-01T00:00:00Z [/b]]"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
