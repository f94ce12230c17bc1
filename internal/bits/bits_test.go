package bits_test

import (
	"testing"

	. "github.com/madgopher/madgo/internal/bits"
)

func TestBits(t *testing.T) {
	b1 := byte(85)  // 01010101
	b2 := byte(170) // 10101010
	b3 := byte(204) // 11001100
	b4 := byte(51)  // 00110011
	b := New([]byte{b1, b2, b3, b4})
	if got := b.Bits(1); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := b.Bits(1); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := b.Bits(1); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := b.Bits(1); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := b.Bits(8); got != 90 /* 01011010 */ {
		t.Fatalf("got %d, want 90", got)
	}
	if got := b.Bits(12); got != 2764 /* 101011001100 */ {
		t.Fatalf("got %d, want 2764", got)
	}
}

func TestBitsRoundTrip(t *testing.T) {
	// Read back a 32-bit value split across a non-byte-aligned cursor.
	buf := []byte{0xff, 0x12, 0x34, 0x56, 0x78, 0x00}
	b := New(buf)
	b.Skip(3)
	got := b.Bits(32)
	want := uint32(0)
	full := New(buf)
	full.Skip(3)
	for i := 0; i < 32; i++ {
		want = want<<1 | uint32(full.Bit())
	}
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func TestLengthAndSetPos(t *testing.T) {
	buf := make([]byte, 16)
	begin := New(buf)
	end := New(buf)
	end.Skip(37)
	if got := Length(begin, end); got != 37 {
		t.Fatalf("got %d, want 37", got)
	}
	end.SetPos(5)
	if got := end.Pos(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestCRC16Incremental(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}
	whole := CRC16(New(buf), 32, 0xffff)

	p := New(buf)
	partial := CRC16(p, 16, 0xffff)
	p.Skip(16)
	incremental := CRC16(p, 16, partial)

	if incremental != whole {
		t.Fatalf("incremental CRC %#x != single-shot CRC %#x", incremental, whole)
	}
}
