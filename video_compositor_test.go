package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestCompositeFrameMapsPalette verifies lit and unlit pixels land on the
// right RGBA values at the right offsets.
func TestCompositeFrameMapsPalette(t *testing.T) {
	var pixels [NUM_PIXELS]bool
	pixels[0] = true
	pixels[NUM_PIXELS-1] = true

	buf := make([]byte, FRAME_SIZE)
	compositeFrame(&pixels, buf)

	if !bytes.Equal(buf[:BYTES_PER_PIXEL], pixelOn[:]) {
		t.Fatalf("first pixel %v, expected lit colour %v", buf[:BYTES_PER_PIXEL], pixelOn)
	}
	if !bytes.Equal(buf[BYTES_PER_PIXEL:2*BYTES_PER_PIXEL], pixelOff[:]) {
		t.Fatalf("second pixel %v, expected unlit colour %v",
			buf[BYTES_PER_PIXEL:2*BYTES_PER_PIXEL], pixelOff)
	}
	last := buf[FRAME_SIZE-BYTES_PER_PIXEL:]
	if !bytes.Equal(last, pixelOn[:]) {
		t.Fatalf("last pixel %v, expected lit colour %v", last, pixelOn)
	}
}

// TestFrameToTextHalfBlocks verifies the four blank/top/bottom/both cases
// produce the right characters and row pairing.
func TestFrameToTextHalfBlocks(t *testing.T) {
	var pixels [NUM_PIXELS]bool
	pixels[0] = true              // top half only at column 0
	pixels[SCREEN_WIDTH+1] = true // bottom half only at column 1
	pixels[2] = true              // both halves at column 2
	pixels[SCREEN_WIDTH+2] = true

	buf := make([]byte, FRAME_SIZE)
	compositeFrame(&pixels, buf)

	art := frameToText(buf)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != SCREEN_HEIGHT/2 {
		t.Fatalf("%d text lines, expected %d", len(lines), SCREEN_HEIGHT/2)
	}

	first := []rune(lines[0])
	if len(first) != SCREEN_WIDTH {
		t.Fatalf("first line has %d runes, expected %d", len(first), SCREEN_WIDTH)
	}
	if first[0] != '▀' || first[1] != '▄' || first[2] != '█' || first[3] != ' ' {
		t.Fatalf("first line starts %q, expected upper, lower, full, blank", string(first[:4]))
	}
}

// TestFrameLitBoundsCheck verifies out-of-range reads report unlit instead
// of panicking on short buffers.
func TestFrameLitBoundsCheck(t *testing.T) {
	if frameLit([]byte{}, 0, 0) {
		t.Fatal("empty frame reported a lit pixel")
	}
	if frameLit(make([]byte, BYTES_PER_PIXEL), SCREEN_WIDTH-1, SCREEN_HEIGHT-1) {
		t.Fatal("truncated frame reported a lit pixel")
	}
}
