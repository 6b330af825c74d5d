package main

import "testing"

// TestTimersCountDownToZero verifies both timers decrement once per tick
// and stop exactly at zero.
func TestTimersCountDownToZero(t *testing.T) {
	c := NewChip8(1)
	c.DelayTimer = 3
	c.SoundTimer = 2

	expected := []struct{ delay, sound byte }{
		{2, 1},
		{1, 0},
		{0, 0},
		{0, 0},
	}
	for i, e := range expected {
		c.UpdateTimers()
		if c.DelayTimer != e.delay || c.SoundTimer != e.sound {
			t.Fatalf("tick %d: delay=%d sound=%d, expected delay=%d sound=%d",
				i+1, c.DelayTimer, c.SoundTimer, e.delay, e.sound)
		}
	}
}

// TestSoundFlagRaisedOnExpiry verifies the one-to-zero sound transition
// raises the flag exactly once, and only on that tick.
func TestSoundFlagRaisedOnExpiry(t *testing.T) {
	c := NewChip8(1)
	c.SoundTimer = 2

	c.UpdateTimers()
	if c.SoundFlag {
		t.Fatal("sound flag raised before the timer expired")
	}

	c.UpdateTimers()
	if !c.SoundFlag {
		t.Fatal("sound flag not raised on the expiry tick")
	}

	c.SoundFlag = false
	c.UpdateTimers()
	if c.SoundFlag {
		t.Fatal("sound flag raised again after expiry")
	}
}

// TestTimerTickWhileZeroIsInert verifies ticking an idle machine changes
// nothing.
func TestTimerTickWhileZeroIsInert(t *testing.T) {
	c := NewChip8(1)
	snapshot := *c

	c.UpdateTimers()
	if *c != snapshot {
		t.Fatal("timer tick mutated an idle machine")
	}
}
