// chip8.go - Chip-8 virtual machine state, reset and timer tick

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
	"fmt"
	"math/rand"
	"os"
)

/*
Chip8 is the complete machine state: 4KB of memory, sixteen 8-bit registers
(register 0xF doubling as the carry/borrow/collision flag), a 16-level call
stack, the 64x32 monochrome pixel grid, the hex keypad and the two 60Hz
countdown timers.

The core itself takes no locks. Step and UpdateTimers mutate the same state,
so a host driving them from more than one goroutine must serialize access;
MachineRunner does exactly that with a single mutex.
*/
type Chip8 struct {
	Memory         [MEMORY_SIZE]byte
	Stack          [NUM_STACK_LEVELS]uint16
	StackPointer   byte
	Registers      [NUM_REGISTERS]byte
	ProgramCounter uint16
	IndexRegister  uint16

	Pixels [NUM_PIXELS]bool
	Keys   [NUM_KEYS]bool

	DelayTimer byte
	SoundTimer byte

	// DrawFlag is raised by 00E0 and DXYK; the host clears it after a
	// repaint. SoundFlag is raised once when the sound timer expires; the
	// host clears it after triggering the tone.
	DrawFlag  bool
	SoundFlag bool

	// Sprite pixels falling off the 64x32 grid are clipped by default;
	// some programs expect modulo wrap-around instead.
	WrapSprites bool

	rng *rand.Rand
}

// NewChip8 returns a machine in its canonical reset configuration. The seed
// feeds the CXNN random source; hosts pass wall-clock entropy, tests pass a
// fixed value.
func NewChip8(seed int64) *Chip8 {
	c := &Chip8{}
	c.Reset(seed)
	return c
}

// Reset restores the canonical power-on state: program counter at
// PROGRAM_START, everything else zeroed except the glyph table, which is
// copied verbatim into low memory. Reset cannot fail.
func (c *Chip8) Reset(seed int64) {
	c.ProgramCounter = PROGRAM_START
	c.IndexRegister = 0
	c.StackPointer = 0

	c.Stack = [NUM_STACK_LEVELS]uint16{}
	c.Registers = [NUM_REGISTERS]byte{}
	c.Pixels = [NUM_PIXELS]bool{}
	c.Keys = [NUM_KEYS]bool{}
	c.Memory = [MEMORY_SIZE]byte{}
	copy(c.Memory[FONTSET_START:], fontset[:])

	c.DelayTimer = 0
	c.SoundTimer = 0
	c.DrawFlag = false
	c.SoundFlag = false

	c.rng = rand.New(rand.NewSource(seed))
}

// LoadProgram reads a ROM file and installs it at PROGRAM_START.
func (c *Chip8) LoadProgram(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading ROM %s: %w", filename, err)
	}
	return c.LoadROM(rom)
}

// LoadROM copies a raw program image verbatim into memory starting at
// PROGRAM_START. Images larger than the 3584-byte program area are rejected
// before a single byte is written.
func (c *Chip8) LoadROM(rom []byte) error {
	if len(rom) > MAX_PROGRAM_SIZE {
		return fmt.Errorf("ROM too large: %d bytes, limit %d", len(rom), MAX_PROGRAM_SIZE)
	}
	copy(c.Memory[PROGRAM_START:], rom)
	return nil
}

// SetKey records a keypad press or release. The core only ever reads key
// state; press/release edges belong to the host.
func (c *Chip8) SetKey(key byte, pressed bool) {
	if key < NUM_KEYS {
		c.Keys[key] = pressed
	}
}

// SetSpriteWrap selects the sprite edge policy: wrap-around when true,
// clipping otherwise. Host configuration, so Reset leaves it alone.
func (c *Chip8) SetSpriteWrap(wrap bool) {
	c.WrapSprites = wrap
}

// UpdateTimers decrements both countdown timers. The host must call this at
// a steady 60Hz, independent of the instruction cadence. The sound timer
// raises the one-shot SoundFlag on its 1 to 0 transition.
func (c *Chip8) UpdateTimers() {
	if c.DelayTimer > 0 {
		c.DelayTimer--
	}
	if c.SoundTimer > 0 {
		if c.SoundTimer == 1 {
			c.SoundFlag = true
		}
		c.SoundTimer--
	}
}

func (c *Chip8) randomByte() byte {
	return byte(c.rng.Intn(256))
}
