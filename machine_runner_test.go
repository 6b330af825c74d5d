package main

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeVideo is a recording VideoOutput for runner tests.
type fakeVideo struct {
	mutex      sync.Mutex
	frames     int
	lastFrame  []byte
	config     DisplayConfig
	started    bool
	doneCh     chan struct{}
	keyHandler func(key byte, pressed bool)
	resetFn    func()
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{doneCh: make(chan struct{})}
}

func (v *fakeVideo) Start() error    { v.started = true; return nil }
func (v *fakeVideo) Stop() error     { v.started = false; return nil }
func (v *fakeVideo) Close() error    { return nil }
func (v *fakeVideo) IsStarted() bool { return v.started }

func (v *fakeVideo) SetDisplayConfig(config DisplayConfig) error {
	v.config = config
	return nil
}
func (v *fakeVideo) GetDisplayConfig() DisplayConfig { return v.config }

func (v *fakeVideo) UpdateFrame(buffer []byte) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.frames++
	v.lastFrame = append(v.lastFrame[:0], buffer...)
	return nil
}

func (v *fakeVideo) GetFrameCount() uint64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return uint64(v.frames)
}
func (v *fakeVideo) GetRefreshRate() int   { return 60 }
func (v *fakeVideo) Done() <-chan struct{} { return v.doneCh }

func (v *fakeVideo) SetKeypadHandler(fn func(key byte, pressed bool)) { v.keyHandler = fn }
func (v *fakeVideo) SetHardResetHandler(fn func())                    { v.resetFn = fn }

// writeTestROM drops a tiny ROM into a temp dir and returns its path.
func writeTestROM(t *testing.T, image []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	if err := os.WriteFile(path, image, 0644); err != nil {
		t.Fatalf("writing test ROM: %v", err)
	}
	return path
}

// TestStepOncePushesDirtyFrames verifies a draw instruction produces
// exactly one frame push and clears the dirty flag.
func TestStepOncePushesDirtyFrames(t *testing.T) {
	chip := NewChip8(1)
	video := newFakeVideo()
	runner := NewMachineRunner(chip, video, nil, MachineRunnerConfig{})

	// 00E0 dirties the display, 1NNN does not
	chip.Memory[PROGRAM_START] = 0x00
	chip.Memory[PROGRAM_START+1] = 0xE0
	chip.Memory[PROGRAM_START+2] = 0x12
	chip.Memory[PROGRAM_START+3] = 0x04

	if !runner.stepOnce() {
		t.Fatal("clear screen step reported a halt")
	}
	if video.GetFrameCount() != 1 {
		t.Fatalf("frame count %d after draw, expected 1", video.GetFrameCount())
	}
	if chip.DrawFlag {
		t.Fatal("dirty flag not cleared after the frame push")
	}

	if !runner.stepOnce() {
		t.Fatal("jump step reported a halt")
	}
	if video.GetFrameCount() != 1 {
		t.Fatalf("frame count %d after a non-draw step, expected still 1", video.GetFrameCount())
	}
}

// TestStepOnceHaltsOnFault verifies an unknown opcode halts the runner by
// default and leaves the program counter on the faulting instruction.
func TestStepOnceHaltsOnFault(t *testing.T) {
	chip := NewChip8(1)
	runner := NewMachineRunner(chip, newFakeVideo(), nil, MachineRunnerConfig{})

	chip.Memory[PROGRAM_START] = 0x51
	chip.Memory[PROGRAM_START+1] = 0x21

	if runner.stepOnce() {
		t.Fatal("unknown opcode did not halt the runner")
	}
	if chip.ProgramCounter != PROGRAM_START {
		t.Fatalf("pc = %04X after halt, expected %04X", chip.ProgramCounter, PROGRAM_START)
	}
}

// TestStepOnceSkipsUnknownWhenTolerated verifies the ignore-unknown policy
// advances past the bad word and keeps running.
func TestStepOnceSkipsUnknownWhenTolerated(t *testing.T) {
	chip := NewChip8(1)
	runner := NewMachineRunner(chip, newFakeVideo(), nil, MachineRunnerConfig{IgnoreUnknown: true})

	chip.Memory[PROGRAM_START] = 0x51
	chip.Memory[PROGRAM_START+1] = 0x21

	if !runner.stepOnce() {
		t.Fatal("tolerated unknown opcode halted the runner")
	}
	if chip.ProgramCounter != PROGRAM_START+2 {
		t.Fatalf("pc = %04X, expected skip to %04X", chip.ProgramCounter, PROGRAM_START+2)
	}

	// Other fault kinds still halt
	chip.StackPointer = NUM_STACK_LEVELS
	chip.Memory[PROGRAM_START+2] = 0x23
	chip.Memory[PROGRAM_START+3] = 0x00
	if runner.stepOnce() {
		t.Fatal("stack overflow was tolerated")
	}
}

// TestTickOnceFiresBeeperOnExpiry verifies the sound timer expiry arms the
// beeper exactly once and respects the mute flag.
func TestTickOnceFiresBeeperOnExpiry(t *testing.T) {
	chip := NewChip8(1)
	beeper := NewBeeper(SAMPLE_RATE)
	runner := NewMachineRunner(chip, newFakeVideo(), beeper, MachineRunnerConfig{})

	chip.SoundTimer = 1
	runner.tickOnce()
	if chip.SoundFlag {
		t.Fatal("sound flag left raised after the tick consumed it")
	}
	if beeper.ReadSample() == 0 {
		t.Fatal("beeper not armed on sound timer expiry")
	}

	// Muted runner consumes the flag without arming the beeper
	chip = NewChip8(1)
	beeper = NewBeeper(SAMPLE_RATE)
	runner = NewMachineRunner(chip, newFakeVideo(), beeper, MachineRunnerConfig{Mute: true})

	chip.SoundTimer = 1
	runner.tickOnce()
	if beeper.ReadSample() != 0 {
		t.Fatal("muted runner armed the beeper")
	}
}

// TestRunnerSetKeyReachesMachine verifies keypad edges land in the core's
// key state.
func TestRunnerSetKeyReachesMachine(t *testing.T) {
	chip := NewChip8(1)
	runner := NewMachineRunner(chip, newFakeVideo(), nil, MachineRunnerConfig{})

	runner.SetKey(0xA, true)
	if !chip.Keys[0xA] {
		t.Fatal("key press did not reach the machine")
	}
	runner.SetKey(0xA, false)
	if chip.Keys[0xA] {
		t.Fatal("key release did not reach the machine")
	}
}

// TestHardResetReloadsProgram verifies a hard reset cold-starts the machine
// and re-loads the remembered ROM.
func TestHardResetReloadsProgram(t *testing.T) {
	rom := []byte{0x60, 0x42, 0x12, 0x00}
	path := writeTestROM(t, rom)

	chip := NewChip8(1)
	video := newFakeVideo()
	runner := NewMachineRunner(chip, video, NewBeeper(SAMPLE_RATE), MachineRunnerConfig{})
	if err := runner.LoadProgram(path); err != nil {
		t.Fatalf("loading ROM: %v", err)
	}

	// Scramble some state as a running program would
	chip.Registers[0] = 0x42
	chip.ProgramCounter = 0x400
	chip.DelayTimer = 10
	chip.Memory[PROGRAM_START] = 0xFF

	runner.HardReset()

	if chip.ProgramCounter != PROGRAM_START {
		t.Fatalf("pc = %04X after hard reset, expected %04X", chip.ProgramCounter, PROGRAM_START)
	}
	if chip.Registers[0] != 0 || chip.DelayTimer != 0 {
		t.Fatal("register or timer state survived the hard reset")
	}
	for i, b := range rom {
		if chip.Memory[PROGRAM_START+i] != b {
			t.Fatalf("ROM byte %d = %02X after reload, expected %02X",
				i, chip.Memory[PROGRAM_START+i], b)
		}
	}
	if video.GetFrameCount() == 0 {
		t.Fatal("hard reset did not push a blank frame")
	}
}

// TestHardResetPreservesWrapPolicy verifies the sprite wrap configuration
// is host policy, not machine state, and survives a cold start.
func TestHardResetPreservesWrapPolicy(t *testing.T) {
	path := writeTestROM(t, []byte{0x12, 0x00})

	chip := NewChip8(1)
	chip.WrapSprites = true
	runner := NewMachineRunner(chip, newFakeVideo(), nil, MachineRunnerConfig{})
	if err := runner.LoadProgram(path); err != nil {
		t.Fatalf("loading ROM: %v", err)
	}

	runner.HardReset()
	if !chip.WrapSprites {
		t.Fatal("hard reset cleared the sprite wrap policy")
	}
}

// TestExecuteStopLifecycle verifies Execute runs until Stop and that the
// running flag tracks the goroutine's lifetime.
func TestExecuteStopLifecycle(t *testing.T) {
	chip := NewChip8(1)
	// Tight self-jump keeps the machine busy without faulting
	chip.Memory[PROGRAM_START] = 0x12
	chip.Memory[PROGRAM_START+1] = 0x00

	runner := NewMachineRunner(chip, newFakeVideo(), nil, MachineRunnerConfig{CycleHz: 2000})

	done := make(chan struct{})
	go func() {
		runner.Execute()
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for !runner.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("runner never reported running")
		case <-time.After(time.Millisecond):
		}
	}

	runner.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not exit after Stop")
	}
	if runner.IsRunning() {
		t.Fatal("running flag still set after exit")
	}

	// Stop is idempotent
	runner.Stop()
}

// TestExecuteExitsWhenVideoCloses verifies the runner follows the backend
// down when its done channel closes.
func TestExecuteExitsWhenVideoCloses(t *testing.T) {
	chip := NewChip8(1)
	chip.Memory[PROGRAM_START] = 0x12
	chip.Memory[PROGRAM_START+1] = 0x00

	video := newFakeVideo()
	runner := NewMachineRunner(chip, video, nil, MachineRunnerConfig{CycleHz: 2000})

	done := make(chan struct{})
	go func() {
		runner.Execute()
		close(done)
	}()

	close(video.doneCh)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not exit after the video backend closed")
	}
}
