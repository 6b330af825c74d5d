// chip8_errors.go - Fault taxonomy for the Chip-8 core

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

import "fmt"

// Fault classifies the ways a single Step can go wrong. Every fault is
// recoverable: the machine state is left untouched and the runner decides
// whether to halt, skip or reset.
type Fault int

const (
	FaultUnknownOpcode Fault = iota
	FaultStackOverflow
	FaultStackUnderflow
	FaultMemoryRange
	FaultProgramCounterRange
)

func (f Fault) String() string {
	switch f {
	case FaultUnknownOpcode:
		return "unknown opcode"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultMemoryRange:
		return "memory access out of range"
	case FaultProgramCounterRange:
		return "program counter out of range"
	}
	return fmt.Sprintf("fault(%d)", int(f))
}

// MachineError provides detailed error context for per-instruction faults
type MachineError struct {
	Fault  Fault  // Fault classification
	Opcode uint16 // The instruction word being executed, 0 if fetch failed
	PC     uint16 // Program counter at the time of the fault
}

func (e *MachineError) Error() string {
	if e.Opcode == 0 {
		return fmt.Sprintf("chip8 %s at PC=%04X", e.Fault, e.PC)
	}
	return fmt.Sprintf("chip8 %s: opcode %04X at PC=%04X", e.Fault, e.Opcode, e.PC)
}

// Is lets hosts match fault kinds with errors.Is against a bare
// &MachineError{Fault: kind}.
func (e *MachineError) Is(target error) bool {
	t, ok := target.(*MachineError)
	if !ok {
		return false
	}
	return t.Fault == e.Fault
}

func unknownOpcode(opcode, pc uint16) *MachineError {
	return &MachineError{Fault: FaultUnknownOpcode, Opcode: opcode, PC: pc}
}
