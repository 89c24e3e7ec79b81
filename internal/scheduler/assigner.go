package scheduler

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source used by Assigner. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Assigner struct {
	rnd Rand
	now func() time.Time
}

// NewAssigner builds an Assigner. A nil rnd uses the shared math/rand/v2
// source and a nil now uses time.Now.
func NewAssigner(rnd Rand, now func() time.Time) *Assigner {
	if rnd == nil {
		rnd = globalRand{}
	}
	if now == nil {
		now = time.Now
	}
	return &Assigner{rnd: rnd, now: now}
}

// Assign picks a minute in [Start, End], jitters it by up to 7 minutes either
// way, clamps it back into the window and places it on today's date in the
// window's zone.
func (a *Assigner) Assign(w Window) time.Time {
	hi := w.last()
	base := w.Start + a.rnd.IntN(hi-w.Start+1)
	jitter := a.rnd.IntN(2*jitterMinutes+1) - jitterMinutes
	return w.At(a.now(), clamp(base+jitter, w.Start, hi))
}
