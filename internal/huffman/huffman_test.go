package huffman_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/bits"
	"github.com/madgopher/madgo/internal/huffman"
)

func TestTableZeroIsEmpty(t *testing.T) {
	tbl, err := huffman.Table(0)
	if err != nil || tbl != nil {
		t.Fatalf("Table(0) = (%v, %v), want (nil, nil)", tbl, err)
	}
}

func TestReservedTableRejected(t *testing.T) {
	if _, err := huffman.Table(4); err == nil {
		t.Fatal("expected error for reserved table 4")
	}
	if _, err := huffman.Table(14); err == nil {
		t.Fatal("expected error for reserved table 14")
	}
}

func TestPairTableRoundTrip(t *testing.T) {
	tbl, err := huffman.Table(1)
	if err != nil {
		t.Fatalf("Table(1): %v", err)
	}
	// Table 1 spans {0,1}x{0,1}; its shortest code decodes (0,0)
	// with no sign bits consumed.
	buf := make([]byte, 4)
	p := bits.New(buf)
	x, y, err := tbl.Decode(&p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if x != 0 || y != 0 {
		t.Fatalf("got (%d,%d), want (0,0)", x, y)
	}
}

func TestQuadTableBIsFlat(t *testing.T) {
	buf := []byte{0xf0} // v=1,w=1,x=1,y=1, then four sign bits from the low nibble
	p := bits.New(buf)
	v, w, x, y := huffman.DecodeQuad(&p, 1)
	if v != 1 || w != 1 || x != 1 || y != 1 {
		t.Fatalf("got (%d,%d,%d,%d), want (1,1,1,1) before sign", v, w, x, y)
	}
}
