package main

import "testing"

// TestBeepArmsFixedBurst verifies Beep produces exactly the configured
// burst length of non-silent samples, then silence.
func TestBeepArmsFixedBurst(t *testing.T) {
	b := NewBeeper(1000)
	b.Beep()

	expected := int(1000 * BEEP_DURATION.Seconds())
	for i := 0; i < expected; i++ {
		if b.ReadSample() == 0 {
			t.Fatalf("silent sample %d inside a %d-sample burst", i, expected)
		}
	}
	if b.ReadSample() != 0 {
		t.Fatal("burst ran past its armed length")
	}
}

// TestBeepSamplesAreSquareWave verifies the output swings between the two
// volume rails and nothing else.
func TestBeepSamplesAreSquareWave(t *testing.T) {
	b := NewBeeper(SAMPLE_RATE)
	b.Beep()

	sawHigh, sawLow := false, false
	for i := 0; i < 1000; i++ {
		switch s := b.ReadSample(); s {
		case BEEP_VOLUME:
			sawHigh = true
		case -BEEP_VOLUME:
			sawLow = true
		default:
			t.Fatalf("sample %d has value %v off the square wave rails", i, s)
		}
	}
	if !sawHigh || !sawLow {
		t.Fatal("square wave never crossed zero")
	}
}

// TestRearmRestartsBurst verifies a second Beep mid-burst restores the full
// duration.
func TestRearmRestartsBurst(t *testing.T) {
	b := NewBeeper(1000)
	b.Beep()

	half := int(1000*BEEP_DURATION.Seconds()) / 2
	for i := 0; i < half; i++ {
		b.ReadSample()
	}

	b.Beep()
	full := int(1000 * BEEP_DURATION.Seconds())
	for i := 0; i < full; i++ {
		if b.ReadSample() == 0 {
			t.Fatalf("re-armed burst went silent at sample %d of %d", i, full)
		}
	}
}

// TestMuteSilencesAndBlocks verifies muting cuts an active burst and stops
// new ones from arming until unmuted.
func TestMuteSilencesAndBlocks(t *testing.T) {
	b := NewBeeper(SAMPLE_RATE)
	b.Beep()
	b.SetMuted(true)

	if b.ReadSample() != 0 {
		t.Fatal("mute did not cut the active burst")
	}
	b.Beep()
	if b.ReadSample() != 0 {
		t.Fatal("muted beeper armed a burst")
	}
	if !b.IsMuted() {
		t.Fatal("mute state not reported")
	}

	b.SetMuted(false)
	b.Beep()
	if b.ReadSample() == 0 {
		t.Fatal("unmuted beeper stayed silent")
	}
}

// TestBeeperReset verifies Reset drops the armed burst but keeps the mute
// configuration.
func TestBeeperReset(t *testing.T) {
	b := NewBeeper(SAMPLE_RATE)
	b.Beep()
	b.Reset()
	if b.ReadSample() != 0 {
		t.Fatal("reset did not silence the beeper")
	}

	b.SetMuted(true)
	b.Reset()
	if !b.IsMuted() {
		t.Fatal("reset cleared the mute configuration")
	}
}

// TestDefaultSampleRate verifies a non-positive rate falls back to the
// package default.
func TestDefaultSampleRate(t *testing.T) {
	if got := NewBeeper(0).SampleRate(); got != SAMPLE_RATE {
		t.Fatalf("sample rate %d, expected default %d", got, SAMPLE_RATE)
	}
	if got := NewBeeper(48000).SampleRate(); got != 48000 {
		t.Fatalf("sample rate %d, expected 48000", got)
	}
}
