package wire

import (
	"math"
	"testing"
)

func TestDecoderU8Sequence(t *testing.T) {
	d := NewDecoder([]byte{0, 1, 2})
	for _, want := range []byte{0, 1, 2} {
		got, err := d.U8()
		if err != nil {
			t.Fatalf("U8: %v", err)
		}
		if got != want {
			t.Fatalf("U8 = %d, want %d", got, want)
		}
	}
	if _, err := d.U8(); err == nil {
		t.Fatal("U8 on exhausted buffer: want error")
	}
}

func TestDecoderU32(t *testing.T) {
	cases := []struct {
		name    string
		in      []byte
		want    uint32
		wantErr bool
	}{
		{"max", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xF}, math.MaxUint32, false},
		{"too long high nibble set (1f)", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x1F}, 0, true},
		{"too long high nibble set (8f)", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x8F}, 0, true},
		{"unterminated", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NewDecoder(c.in).U32()
			if c.wantErr {
				if err == nil {
					t.Fatal("want error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("U32: %v", err)
			}
			if got != c.want {
				t.Fatalf("U32 = %#x, want %#x", got, c.want)
			}
		})
	}
}

func TestDecoderU32Sequential(t *testing.T) {
	d := NewDecoder([]byte{0, 1, 2})
	for _, want := range []uint32{0, 1, 2} {
		got, err := d.U32()
		if err != nil {
			t.Fatalf("U32: %v", err)
		}
		if got != want {
			t.Fatalf("U32 = %d, want %d", got, want)
		}
	}
	if _, err := d.U32(); err == nil {
		t.Fatal("U32 on exhausted buffer: want error")
	}
}

func TestDecoderU64(t *testing.T) {
	cases := []struct {
		name    string
		in      []byte
		want    uint64
		wantErr bool
	}{
		{"max", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x1}, math.MaxUint64, false},
		{"too long (03)", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x3}, 0, true},
		{"too long (81)", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x81}, 0, true},
		{"unterminated", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NewDecoder(c.in).U64()
			if c.wantErr {
				if err == nil {
					t.Fatal("want error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("U64: %v", err)
			}
			if got != c.want {
				t.Fatalf("U64 = %#x, want %#x", got, c.want)
			}
		})
	}
}

func TestDecoderS64(t *testing.T) {
	d := NewDecoder([]byte{0, 1, 2, 3, 4, 5})
	want := []int64{0, math.MinInt64, 1, -1, 2, -2}
	for _, w := range want {
		got, err := d.S64()
		if err != nil {
			t.Fatalf("S64: %v", err)
		}
		if got != w {
			t.Fatalf("S64 = %d, want %d", got, w)
		}
	}

	maxBytes := []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if got, err := NewDecoder(maxBytes).S64(); err != nil || got != math.MaxInt64 {
		t.Fatalf("S64(max bytes) = %d, %v; want %d, nil", got, err, int64(math.MaxInt64))
	}

	minPlusOneBytes := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if got, err := NewDecoder(minPlusOneBytes).S64(); err != nil || got != math.MinInt64+1 {
		t.Fatalf("S64(min+1 bytes) = %d, %v; want %d, nil", got, err, int64(math.MinInt64+1))
	}
}

func TestDecoderString(t *testing.T) {
	d := NewDecoder([]byte("hello"))
	got, err := d.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if got != "hello" {
		t.Fatalf("String = %q, want %q", got, "hello")
	}
	if !d.Done() {
		t.Fatal("String: want buffer fully consumed")
	}

	empty, err := NewDecoder(nil).String()
	if err != nil || empty != "" {
		t.Fatalf("String(empty) = %q, %v; want \"\", nil", empty, err)
	}
}
