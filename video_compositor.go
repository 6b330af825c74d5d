// video_compositor.go - Pixel grid to RGBA frame conversion

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

import "strings"

const (
	// RGBA bytes per pixel
	BYTES_PER_PIXEL = 4
	FRAME_SIZE      = NUM_PIXELS * BYTES_PER_PIXEL
)

// Monochrome palette, RGBA byte order. The lit colour is the warm white of
// a well-worn phosphor tube.
var (
	pixelOn  = [BYTES_PER_PIXEL]byte{0xF8, 0xF8, 0xF2, 0xFF}
	pixelOff = [BYTES_PER_PIXEL]byte{0x10, 0x10, 0x18, 0xFF}
)

// compositeFrame expands the machine's on/off pixel grid into the RGBA
// buffer the video backends consume. buf must be FRAME_SIZE bytes.
func compositeFrame(pixels *[NUM_PIXELS]bool, buf []byte) {
	for i, on := range pixels {
		src := &pixelOff
		if on {
			src = &pixelOn
		}
		copy(buf[i*BYTES_PER_PIXEL:], src[:])
	}
}

// frameToText renders an RGBA frame as text, two display rows per line
// using half-block characters. Used by the terminal backend and by the
// clipboard copy shortcut.
func frameToText(frame []byte) string {
	var sb strings.Builder
	sb.Grow((SCREEN_WIDTH + 1) * SCREEN_HEIGHT / 2)

	for y := 0; y < SCREEN_HEIGHT; y += 2 {
		for x := 0; x < SCREEN_WIDTH; x++ {
			top := frameLit(frame, x, y)
			bottom := frameLit(frame, x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// frameLit reports whether the pixel at (x, y) of an RGBA frame is lit.
// Comparing against the off colour's red channel is enough for a
// two-colour palette.
func frameLit(frame []byte, x, y int) bool {
	idx := (y*SCREEN_WIDTH + x) * BYTES_PER_PIXEL
	if idx >= len(frame) {
		return false
	}
	return frame[idx] != pixelOff[0]
}
