package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestResetCanonicalState verifies that a fresh machine comes up in the
// documented power-on configuration.
func TestResetCanonicalState(t *testing.T) {
	c := NewChip8(1)

	if c.ProgramCounter != PROGRAM_START {
		t.Fatalf("ProgramCounter %04X, expected %04X", c.ProgramCounter, PROGRAM_START)
	}
	if c.IndexRegister != 0 {
		t.Fatalf("IndexRegister %04X, expected 0", c.IndexRegister)
	}
	if c.StackPointer != 0 {
		t.Fatalf("StackPointer %d, expected 0", c.StackPointer)
	}
	if c.DelayTimer != 0 || c.SoundTimer != 0 {
		t.Fatalf("timers %d/%d, expected 0/0", c.DelayTimer, c.SoundTimer)
	}
	if c.DrawFlag || c.SoundFlag {
		t.Fatal("flags raised on reset")
	}

	for i, r := range c.Registers {
		if r != 0 {
			t.Fatalf("register V%X = %02X, expected 0", i, r)
		}
	}
	for i, p := range c.Pixels {
		if p {
			t.Fatalf("pixel %d lit on reset", i)
		}
	}
	for i, k := range c.Keys {
		if k {
			t.Fatalf("key %X pressed on reset", i)
		}
	}
}

// TestResetInstallsFontset verifies the glyph table occupies 0x000-0x04F
// and that the rest of memory is zeroed.
func TestResetInstallsFontset(t *testing.T) {
	c := NewChip8(1)

	if !bytes.Equal(c.Memory[FONTSET_START:FONTSET_START+FONTSET_SIZE], fontset[:]) {
		t.Fatal("fontset not installed at low memory")
	}
	for addr := FONTSET_START + FONTSET_SIZE; addr < MEMORY_SIZE; addr++ {
		if c.Memory[addr] != 0 {
			t.Fatalf("memory[%03X] = %02X, expected 0", addr, c.Memory[addr])
		}
	}
}

// TestResetClearsLoadedProgram verifies that a second Reset wipes a
// previously loaded ROM.
func TestResetClearsLoadedProgram(t *testing.T) {
	c := NewChip8(1)
	if err := c.LoadROM([]byte{0x12, 0x00}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	c.Reset(2)
	if c.Memory[PROGRAM_START] != 0 || c.Memory[PROGRAM_START+1] != 0 {
		t.Fatal("program survived reset")
	}
}

// TestLoadROMPlacesImageAtProgramStart verifies a verbatim copy to 0x200.
func TestLoadROMPlacesImageAtProgramStart(t *testing.T) {
	c := NewChip8(1)
	rom := []byte{0xA2, 0x00, 0xD0, 0x15}

	if err := c.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if !bytes.Equal(c.Memory[PROGRAM_START:PROGRAM_START+len(rom)], rom) {
		t.Fatal("ROM image not copied verbatim")
	}
}

// TestLoadROMSizeCeiling verifies the 3584-byte limit: a ROM exactly at the
// limit loads, one byte more is rejected with no partial load.
func TestLoadROMSizeCeiling(t *testing.T) {
	c := NewChip8(1)

	exact := make([]byte, MAX_PROGRAM_SIZE)
	for i := range exact {
		exact[i] = 0xAB
	}
	if err := c.LoadROM(exact); err != nil {
		t.Fatalf("ROM at the size limit rejected: %v", err)
	}
	if c.Memory[MEMORY_SIZE-1] != 0xAB {
		t.Fatal("last ROM byte missing at top of memory")
	}

	c.Reset(1)
	tooBig := make([]byte, MAX_PROGRAM_SIZE+1)
	if err := c.LoadROM(tooBig); err == nil {
		t.Fatal("oversized ROM accepted")
	}
	for addr := PROGRAM_START; addr < MEMORY_SIZE; addr++ {
		if c.Memory[addr] != 0 {
			t.Fatalf("partial load: memory[%03X] = %02X", addr, c.Memory[addr])
		}
	}
}

// TestLoadProgramFromFile verifies the file-based load path, including the
// unreadable-file error.
func TestLoadProgramFromFile(t *testing.T) {
	c := NewChip8(1)

	romPath := filepath.Join(t.TempDir(), "test.ch8")
	rom := []byte{0x60, 0x2A, 0x12, 0x02}
	if err := os.WriteFile(romPath, rom, 0o644); err != nil {
		t.Fatalf("writing ROM fixture: %v", err)
	}

	if err := c.LoadProgram(romPath); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if !bytes.Equal(c.Memory[PROGRAM_START:PROGRAM_START+len(rom)], rom) {
		t.Fatal("ROM not loaded from file")
	}

	if err := c.LoadProgram(filepath.Join(t.TempDir(), "missing.ch8")); err == nil {
		t.Fatal("missing ROM file accepted")
	}
}

// TestSetKeyIgnoresOutOfRange verifies key indices above 0xF are dropped.
func TestSetKeyIgnoresOutOfRange(t *testing.T) {
	c := NewChip8(1)

	c.SetKey(0xF, true)
	if !c.Keys[0xF] {
		t.Fatal("key F not recorded")
	}
	c.SetKey(0x10, true) // out of range, must not panic or wrap
	c.SetKey(0xF, false)
	if c.Keys[0xF] {
		t.Fatal("key F not released")
	}
}
