// chip8_opcodes.go - Fetch-decode-execute engine for the Chip-8 core

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

/*
Dispatch is a two-level table: the top nibble of the instruction word selects
a family handler, and each handler switches on its family-specific selector
field. Undefined patterns take the same uniform path in every family - a
FaultUnknownOpcode that leaves the machine untouched, program counter
included.

Opcode field notation, as used throughout:

	X    bits 8-11, a register index
	Y    bits 4-7, a register index
	N    bits 0-3, a 4-bit literal
	NN   bits 0-7, an 8-bit immediate
	NNN  bits 0-11, a 12-bit address
*/
var opcodeFamilies = [16]func(*Chip8, uint16) error{
	0x0: execSystem,
	0x1: execJump,
	0x2: execCall,
	0x3: execSkipEqualImm,
	0x4: execSkipNotEqualImm,
	0x5: execSkipEqualReg,
	0x6: execLoadImm,
	0x7: execAddImm,
	0x8: execALU,
	0x9: execSkipNotEqualReg,
	0xA: execLoadIndex,
	0xB: execJumpOffset,
	0xC: execRandom,
	0xD: execDraw,
	0xE: execKeySkip,
	0xF: execMisc,
}

// Step fetches, decodes and executes exactly one instruction. All effects are
// applied before Step returns; on any fault no state is mutated at all and
// the program counter still addresses the faulting instruction.
func (c *Chip8) Step() error {
	if c.ProgramCounter > MEMORY_SIZE-2 {
		return &MachineError{Fault: FaultProgramCounterRange, PC: c.ProgramCounter}
	}

	// Instruction words are stored high byte first
	opcode := uint16(c.Memory[c.ProgramCounter])<<8 | uint16(c.Memory[c.ProgramCounter+1])

	return opcodeFamilies[opcode>>12](c, opcode)
}

func opX(opcode uint16) byte     { return byte(opcode>>8) & 0x0F }
func opY(opcode uint16) byte     { return byte(opcode>>4) & 0x0F }
func opN(opcode uint16) byte     { return byte(opcode) & 0x0F }
func opNN(opcode uint16) byte    { return byte(opcode) }
func opNNN(opcode uint16) uint16 { return opcode & 0x0FFF }

// skipIf advances the program counter by 4 on a taken skip and 2 otherwise.
func (c *Chip8) skipIf(taken bool) {
	if taken {
		c.ProgramCounter += 4
	} else {
		c.ProgramCounter += 2
	}
}

// execSystem handles the 0x0 family: 00E0 clears the display, 00EE returns
// from a subroutine.
func execSystem(c *Chip8, opcode uint16) error {
	switch opNNN(opcode) {
	case 0x0E0:
		c.Pixels = [NUM_PIXELS]bool{}
		c.DrawFlag = true
		c.ProgramCounter += 2
		return nil
	case 0x0EE:
		if c.StackPointer == 0 {
			return &MachineError{Fault: FaultStackUnderflow, Opcode: opcode, PC: c.ProgramCounter}
		}
		c.StackPointer--
		c.ProgramCounter = c.Stack[c.StackPointer] + 2
		return nil
	}
	return unknownOpcode(opcode, c.ProgramCounter)
}

// execJump handles 1NNN: absolute jump.
func execJump(c *Chip8, opcode uint16) error {
	c.ProgramCounter = opNNN(opcode)
	return nil
}

// execCall handles 2NNN: push the current program counter and jump.
func execCall(c *Chip8, opcode uint16) error {
	if c.StackPointer >= NUM_STACK_LEVELS {
		return &MachineError{Fault: FaultStackOverflow, Opcode: opcode, PC: c.ProgramCounter}
	}
	c.Stack[c.StackPointer] = c.ProgramCounter
	c.StackPointer++
	c.ProgramCounter = opNNN(opcode)
	return nil
}

// execSkipEqualImm handles 3XNN: skip the next instruction if VX == NN.
func execSkipEqualImm(c *Chip8, opcode uint16) error {
	c.skipIf(c.Registers[opX(opcode)] == opNN(opcode))
	return nil
}

// execSkipNotEqualImm handles 4XNN: skip the next instruction if VX != NN.
func execSkipNotEqualImm(c *Chip8, opcode uint16) error {
	c.skipIf(c.Registers[opX(opcode)] != opNN(opcode))
	return nil
}

// execSkipEqualReg handles 5XY0: skip the next instruction if VX == VY. A
// non-zero trailing nibble is undefined.
func execSkipEqualReg(c *Chip8, opcode uint16) error {
	if opN(opcode) != 0 {
		return unknownOpcode(opcode, c.ProgramCounter)
	}
	c.skipIf(c.Registers[opX(opcode)] == c.Registers[opY(opcode)])
	return nil
}

// execLoadImm handles 6XNN: VX = NN.
func execLoadImm(c *Chip8, opcode uint16) error {
	c.Registers[opX(opcode)] = opNN(opcode)
	c.ProgramCounter += 2
	return nil
}

// execAddImm handles 7XNN: VX += NN, truncated to 8 bits, flag untouched.
func execAddImm(c *Chip8, opcode uint16) error {
	c.Registers[opX(opcode)] += opNN(opcode)
	c.ProgramCounter += 2
	return nil
}

// execALU handles the 8XY_ family of register-to-register operations. The
// flag register is written last, so it wins when X is 0xF.
func execALU(c *Chip8, opcode uint16) error {
	x := opX(opcode)
	y := opY(opcode)

	switch opN(opcode) {
	case 0x0: // VX = VY
		c.Registers[x] = c.Registers[y]
	case 0x1: // VX |= VY
		c.Registers[x] |= c.Registers[y]
	case 0x2: // VX &= VY
		c.Registers[x] &= c.Registers[y]
	case 0x3: // VX ^= VY
		c.Registers[x] ^= c.Registers[y]
	case 0x4: // VX += VY, flag = carry
		sum := uint16(c.Registers[x]) + uint16(c.Registers[y])
		c.Registers[x] = byte(sum & 0xFF)
		c.Registers[FLAG_REGISTER] = btou8(sum > 0xFF)
	case 0x5: // VX -= VY, flag = 0 on borrow
		borrow := c.Registers[y] > c.Registers[x]
		c.Registers[x] = c.Registers[x] - c.Registers[y]
		c.Registers[FLAG_REGISTER] = btou8(!borrow)
	case 0x6: // VX >>= 1, flag = pre-shift low bit
		low := c.Registers[x] & 1
		c.Registers[x] >>= 1
		c.Registers[FLAG_REGISTER] = low
	case 0x7: // VX = VY - VX, flag = 0 on borrow
		borrow := c.Registers[x] > c.Registers[y]
		c.Registers[x] = c.Registers[y] - c.Registers[x]
		c.Registers[FLAG_REGISTER] = btou8(!borrow)
	case 0xE: // VX <<= 1, flag = pre-shift high bit
		high := c.Registers[x] >> 7
		c.Registers[x] <<= 1
		c.Registers[FLAG_REGISTER] = high
	default:
		return unknownOpcode(opcode, c.ProgramCounter)
	}

	c.ProgramCounter += 2
	return nil
}

// execSkipNotEqualReg handles 9XY0: skip the next instruction if VX != VY.
func execSkipNotEqualReg(c *Chip8, opcode uint16) error {
	if opN(opcode) != 0 {
		return unknownOpcode(opcode, c.ProgramCounter)
	}
	c.skipIf(c.Registers[opX(opcode)] != c.Registers[opY(opcode)])
	return nil
}

// execLoadIndex handles ANNN: index register = NNN.
func execLoadIndex(c *Chip8, opcode uint16) error {
	c.IndexRegister = opNNN(opcode)
	c.ProgramCounter += 2
	return nil
}

// execJumpOffset handles BNNN: jump to NNN plus V0. The address is computed
// first and V0 added to it, matching the documented architecture.
func execJumpOffset(c *Chip8, opcode uint16) error {
	c.ProgramCounter = opNNN(opcode) + uint16(c.Registers[0])
	return nil
}

// execRandom handles CXNN: VX = random byte AND NN.
func execRandom(c *Chip8, opcode uint16) error {
	c.Registers[opX(opcode)] = c.randomByte() & opNN(opcode)
	c.ProgramCounter += 2
	return nil
}

/*
execDraw handles DXYN: XOR an 8xN sprite read from memory[index] onto the
display at (VX, VY). Any pixel the XOR turns from set to unset raises the
collision flag. Pixels landing off the 64x32 grid are clipped unless the
wrap-around policy is enabled, in which case coordinates are taken modulo
the screen dimensions.
*/
func execDraw(c *Chip8, opcode uint16) error {
	height := uint16(opN(opcode))
	if uint32(c.IndexRegister)+uint32(height) > MEMORY_SIZE {
		return &MachineError{Fault: FaultMemoryRange, Opcode: opcode, PC: c.ProgramCounter}
	}

	xpos := int(c.Registers[opX(opcode)])
	ypos := int(c.Registers[opY(opcode)])
	c.Registers[FLAG_REGISTER] = 0

	for row := 0; row < int(height); row++ {
		spriteRow := c.Memory[c.IndexRegister+uint16(row)]
		for col := 0; col < SPRITE_WIDTH; col++ {
			if spriteRow&(0x80>>col) == 0 {
				continue
			}
			px := xpos + col
			py := ypos + row
			if c.WrapSprites {
				px %= SCREEN_WIDTH
				py %= SCREEN_HEIGHT
			} else if px >= SCREEN_WIDTH || py >= SCREEN_HEIGHT {
				continue
			}
			idx := py*SCREEN_WIDTH + px
			if c.Pixels[idx] {
				c.Registers[FLAG_REGISTER] = 1
			}
			c.Pixels[idx] = !c.Pixels[idx]
		}
	}

	c.DrawFlag = true
	c.ProgramCounter += 2
	return nil
}

// execKeySkip handles EX9E and EXA1: skip on keypad state for the key held
// in VX.
func execKeySkip(c *Chip8, opcode uint16) error {
	key := c.Registers[opX(opcode)] & 0x0F

	switch opNN(opcode) {
	case 0x9E:
		c.skipIf(c.Keys[key])
		return nil
	case 0xA1:
		c.skipIf(!c.Keys[key])
		return nil
	}
	return unknownOpcode(opcode, c.ProgramCounter)
}

// execMisc handles the FX__ family: timers, keypad wait, index arithmetic
// and the memory block transfers.
func execMisc(c *Chip8, opcode uint16) error {
	x := opX(opcode)

	switch opNN(opcode) {
	case 0x07: // VX = delay timer
		c.Registers[x] = c.DelayTimer

	case 0x0A: // busy-wait for a key press
		// The scan deliberately runs the whole keypad, so the
		// highest-indexed pressed key wins when several are down.
		pressed := false
		for key := 0; key < NUM_KEYS; key++ {
			if c.Keys[key] {
				c.Registers[x] = byte(key)
				pressed = true
			}
		}
		if !pressed {
			// No advance: the instruction re-executes next cycle
			return nil
		}

	case 0x15: // delay timer = VX
		c.DelayTimer = c.Registers[x]

	case 0x18: // sound timer = VX
		c.SoundTimer = c.Registers[x]

	case 0x1E: // index register += VX
		c.IndexRegister += uint16(c.Registers[x])

	case 0x29: // index register = glyph address of the character in VX
		c.IndexRegister = uint16(c.Registers[x]) * GLYPH_HEIGHT

	case 0x33: // decimal digits of VX at memory[index..index+2]
		if uint32(c.IndexRegister)+3 > MEMORY_SIZE {
			return &MachineError{Fault: FaultMemoryRange, Opcode: opcode, PC: c.ProgramCounter}
		}
		c.Memory[c.IndexRegister] = c.Registers[x] / 100
		c.Memory[c.IndexRegister+1] = (c.Registers[x] / 10) % 10
		c.Memory[c.IndexRegister+2] = c.Registers[x] % 10

	case 0x55: // store V0..VX at memory[index]
		if uint32(c.IndexRegister)+uint32(x)+1 > MEMORY_SIZE {
			return &MachineError{Fault: FaultMemoryRange, Opcode: opcode, PC: c.ProgramCounter}
		}
		for r := byte(0); r <= x; r++ {
			c.Memory[c.IndexRegister+uint16(r)] = c.Registers[r]
		}

	case 0x65: // load V0..VX from memory[index]
		if uint32(c.IndexRegister)+uint32(x)+1 > MEMORY_SIZE {
			return &MachineError{Fault: FaultMemoryRange, Opcode: opcode, PC: c.ProgramCounter}
		}
		for r := byte(0); r <= x; r++ {
			c.Registers[r] = c.Memory[c.IndexRegister+uint16(r)]
		}

	default:
		return unknownOpcode(opcode, c.ProgramCounter)
	}

	c.ProgramCounter += 2
	return nil
}

func btou8(b bool) byte {
	if b {
		return 1
	}
	return 0
}
