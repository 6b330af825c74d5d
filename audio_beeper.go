// audio_beeper.go - Square-wave beeper driven by the sound timer

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionChip8
License: GPLv3 or later
*/

package main

import (
	"sync/atomic"
	"time"
)

const (
	SAMPLE_RATE = 44100

	// The machine's only audio cue: a short fixed tone fired when the
	// sound timer expires
	BEEP_FREQUENCY = 440.0
	BEEP_DURATION  = 100 * time.Millisecond
	BEEP_VOLUME    = 0.25
)

// Beeper is the machine's one-voice sound source. Beep arms a fixed-length
// square-wave burst; the audio backend pulls samples off it on its own
// goroutine, so the armed length is the only shared state and lives in an
// atomic.
type Beeper struct {
	sampleRate int
	remaining  atomic.Int64 // samples left in the current burst
	muted      atomic.Bool

	// phase is owned by the backend's reader goroutine
	phase float64
}

func NewBeeper(sampleRate int) *Beeper {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	return &Beeper{sampleRate: sampleRate}
}

// Beep arms one tone burst. Re-arming while a burst is sounding restarts
// the full duration, which is what rapid-fire sound timers should do.
func (b *Beeper) Beep() {
	if b.muted.Load() {
		return
	}
	samples := int64(float64(b.sampleRate) * BEEP_DURATION.Seconds())
	b.remaining.Store(samples)
}

// ReadSample produces the next mono sample. Silence when no burst is armed.
func (b *Beeper) ReadSample() float32 {
	for {
		left := b.remaining.Load()
		if left <= 0 {
			b.phase = 0
			return 0
		}
		if b.remaining.CompareAndSwap(left, left-1) {
			break
		}
	}

	b.phase += BEEP_FREQUENCY / float64(b.sampleRate)
	if b.phase >= 1 {
		b.phase -= 1
	}
	if b.phase < 0.5 {
		return BEEP_VOLUME
	}
	return -BEEP_VOLUME
}

func (b *Beeper) SetMuted(muted bool) {
	b.muted.Store(muted)
	if muted {
		b.remaining.Store(0)
	}
}

func (b *Beeper) IsMuted() bool {
	return b.muted.Load()
}

func (b *Beeper) SampleRate() int {
	return b.sampleRate
}
