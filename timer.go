package madgo

import "fmt"

// fracParts is the number of timer fraction units per second: the LCM
// of the standard sample rates (16000, 22050, 24000, 32000, 44100,
// 48000) times a small common factor, so that any of those rates
// divides it evenly and per-frame durations accumulate exactly.
const fracParts = 14112000

// TimerUnit selects the resolution Timer.Count and Timer.String report in.
type TimerUnit int

const (
	UnitSeconds TimerUnit = iota
	UnitMinutes
	UnitHours
	UnitDeciseconds
	UnitCentiseconds
	UnitMilliseconds
)

// Timer accumulates exact playback duration as whole seconds plus a
// fraction in 1/14112000s units, avoiding the rounding drift floating
// point would introduce over many frames.
type Timer struct {
	Seconds  int64
	fraction int64
}

func (t *Timer) reduce() {
	t.Seconds += t.fraction / fracParts
	t.fraction %= fracParts
}

// Set stores fraction/fracparts seconds exactly, on top of seconds
// whole seconds. It special-cases the standard sample rates (and the
// already-reduced fracParts case) to avoid the general gcd reduction,
// the same shortcut the original timer takes.
func (t *Timer) Set(seconds int64, fraction, fracparts int64) {
	t.Seconds = seconds

	if fraction == 0 {
		fracparts = 0
	} else if fracparts == 0 {
		fracparts, fraction = fraction, 1
	}

	switch fracparts {
	case 0:
		t.fraction = 0
	case fracParts:
		t.fraction = fraction
	case 16000, 22050, 24000, 32000, 44100, 48000:
		t.fraction = fraction * (fracParts / fracparts)
	default:
		n, d := fraction, fracparts
		for _, p := range [4]int64{2, 3, 5, 7} {
			for n%p == 0 && d%p == 0 {
				n /= p
				d /= p
			}
		}
		if d < fracParts {
			t.fraction = n*(fracParts/d) + n*(fracParts%d)/d
		} else {
			t.fraction = fracParts*(n/d) + fracParts*(n%d)/d
		}
	}

	if t.fraction >= fracParts {
		t.reduce()
	}
}

// Add accumulates incr's duration in place.
func (t *Timer) Add(incr Timer) {
	t.Seconds += incr.Seconds
	t.fraction += incr.fraction
	if t.fraction >= fracParts {
		t.reduce()
	}
}

// Compare returns -1, 0 or +1 as t is before, equal to, or after other.
func (t Timer) Compare(other Timer) int {
	if d := t.Seconds - other.Seconds; d != 0 {
		return sign(d)
	}
	return sign(t.fraction - other.fraction)
}

func sign(d int64) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// Count returns the timer's value in the given unit.
func (t Timer) Count(unit TimerUnit) int64 {
	switch unit {
	case UnitHours:
		return t.Seconds / 60 / 60
	case UnitMinutes:
		return t.Seconds / 60
	case UnitSeconds:
		return t.Seconds
	case UnitDeciseconds:
		return t.Seconds*10 + t.fraction/(fracParts/10)
	case UnitCentiseconds:
		return t.Seconds*100 + t.fraction/(fracParts/100)
	case UnitMilliseconds:
		return t.Seconds*1000 + t.fraction/(fracParts/1000)
	}
	return 0
}

// Fraction returns the fractional part of the timer rescaled to
// fracparts units (e.g. 44100 for "samples into the current second").
func (t Timer) Fraction(fracparts int64) int64 {
	if fracparts == fracParts {
		return t.fraction
	}
	return t.fraction * fracparts / fracParts
}

// String formats the timer as hh:mm:ss.t, mm:ss.t or ss.t depending
// on resolution (UnitHours, UnitMinutes or UnitSeconds).
func (t Timer) String(resolution TimerUnit) string {
	seconds := t.Seconds
	tenths := t.fraction / (fracParts / 10)

	switch resolution {
	case UnitHours:
		minutes := seconds / 60
		hours := minutes / 60
		return fmt.Sprintf("%02d:%02d:%02d.%d", hours, minutes%60, seconds%60, tenths)
	case UnitMinutes:
		minutes := seconds / 60
		return fmt.Sprintf("%02d:%02d.%d", minutes, seconds%60, tenths)
	default:
		return fmt.Sprintf("%d.%d", seconds, tenths)
	}
}
