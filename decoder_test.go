package madgo

import "testing"

func TestTimerAddAssociative(t *testing.T) {
	var a, b, c Timer
	a.Set(0, 1152, 44100)
	b.Set(0, 1152, 44100)
	c.Set(0, 1152, 44100)

	var left, right Timer
	left.Add(a)
	left.Add(b)
	left.Add(c)

	right.Add(c)
	right.Add(b)
	right.Add(a)

	if left.Compare(right) != 0 {
		t.Fatalf("timer addition not commutative: %+v vs %+v", left, right)
	}

	var total Timer
	total.Set(0, 3*1152, 44100)
	if left.Compare(total) != 0 {
		t.Fatalf("3 frames of 1152/44100s = %+v, want %+v", left, total)
	}
}

func TestTimerCountMilliseconds(t *testing.T) {
	var tm Timer
	tm.Set(0, 44100, 44100)
	if got := tm.Count(UnitMilliseconds); got != 1000 {
		t.Fatalf("Count(ms) = %d, want 1000", got)
	}
}

func TestDecoderJunkInputReportsError(t *testing.T) {
	// 512 bytes of junk with no sync word anywhere: the sync scan runs
	// off the end of the buffer, so the driver should report ErrBufLen
	// through the error callback and not hang or panic on malformed
	// input.
	junk := make([]byte, 512)
	for i := range junk {
		junk[i] = byte(i)
	}

	fed := false
	errs := 0
	opts := Options{
		Input: func(_ interface{}, s *Stream) Flow {
			if fed {
				return FlowStop
			}
			fed = true
			s.Buffer(junk)
			return FlowContinue
		},
		Error: func(_ interface{}, s *Stream, f *Frame, err error) Flow {
			errs++
			return FlowContinue
		},
	}

	d := NewDecoder(opts)
	if err := d.Run(); err != nil && err != ErrBufLen {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if errs == 0 {
		t.Fatal("expected at least one error reported on pure junk input")
	}
}

func TestErrorRecoverablePartition(t *testing.T) {
	cases := []struct {
		err         Error
		recoverable bool
	}{
		{ErrBufLen, false},
		{ErrBufPtr, false},
		{ErrNoMem, false},
		{ErrLostSync, true},
		{ErrBadCRC, true},
		{ErrBadHuffData, true},
		{ErrBadStereo, true},
	}
	for _, c := range cases {
		if got := c.err.Recoverable(); got != c.recoverable {
			t.Errorf("%v.Recoverable() = %v, want %v", c.err, got, c.recoverable)
		}
	}
}
