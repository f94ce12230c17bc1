package consts_test

import (
	"testing"

	"github.com/madgopher/madgo/internal/consts"
)

func TestSfTableDecreasing(t *testing.T) {
	for i := 1; i < len(consts.SfTable); i++ {
		if consts.SfTable[i] >= consts.SfTable[i-1] {
			t.Fatalf("SfTable[%d] = %d not less than SfTable[%d] = %d", i, consts.SfTable[i], i-1, consts.SfTable[i-1])
		}
	}
}

func TestQCTableNlevelsAscending(t *testing.T) {
	for i := 1; i < len(consts.QCTable); i++ {
		if consts.QCTable[i].Nlevels <= consts.QCTable[i-1].Nlevels {
			t.Fatalf("QCTable[%d].Nlevels = %d not greater than QCTable[%d].Nlevels = %d",
				i, consts.QCTable[i].Nlevels, i-1, consts.QCTable[i-1].Nlevels)
		}
	}
}

func TestLayerIITableSelect(t *testing.T) {
	cases := []struct {
		bitrate, sfreq  int
		table, sblimit int
	}{
		{32000, 32000, 3, 12},
		{32000, 44100, 2, 8},
		{64000, 48000, 0, 27},
		{192000, 44100, 1, 30},
		{192000, 48000, 0, 27},
	}
	for _, c := range cases {
		table, sblimit := consts.LayerIITableSelect(c.bitrate, c.sfreq)
		if table != c.table || sblimit != c.sblimit {
			t.Fatalf("LayerIITableSelect(%d, %d) = (%d, %d), want (%d, %d)",
				c.bitrate, c.sfreq, table, sblimit, c.table, c.sblimit)
		}
	}
}

func TestBitrateFreeFormatIsZero(t *testing.T) {
	if got := consts.Bitrate(consts.Version1, consts.Layer3, 0); got != 0 {
		t.Fatalf("Bitrate(index=0) = %d, want 0", got)
	}
}
