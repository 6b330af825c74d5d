// machine_runner.go - Host loop: instruction cadence, 60Hz timers, I/O plumbing

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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type MachineRunnerConfig struct {
	CycleHz       int  // Instruction cadence; timers always tick at TIMER_HZ
	IgnoreUnknown bool // Skip past unknown opcodes instead of halting
	Mute          bool
}

/*
MachineRunner owns one Chip8 and drives it: Step at the configured
instruction cadence, UpdateTimers at a fixed 60Hz, both from a single
goroutine. The core takes no locks of its own, so every touch of machine
state - steps, ticks, keypad writes arriving from the video backend's
goroutine, hard resets - goes through the runner's mutex.
*/
type MachineRunner struct {
	mutex  sync.Mutex
	chip   *Chip8
	video  VideoOutput
	beeper *Beeper

	cycleHz       int
	ignoreUnknown bool
	mute          bool

	romPath string
	frame   []byte

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMachineRunner(chip *Chip8, video VideoOutput, beeper *Beeper, config MachineRunnerConfig) *MachineRunner {
	cycleHz := config.CycleHz
	if cycleHz <= 0 {
		cycleHz = DEFAULT_CYCLE_HZ
	}

	return &MachineRunner{
		chip:          chip,
		video:         video,
		beeper:        beeper,
		cycleHz:       cycleHz,
		ignoreUnknown: config.IgnoreUnknown,
		mute:          config.Mute,
		frame:         make([]byte, FRAME_SIZE),
		stopCh:        make(chan struct{}),
	}
}

// LoadProgram installs a ROM and remembers its path so a hard reset can
// re-load it.
func (r *MachineRunner) LoadProgram(filename string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.chip.LoadProgram(filename); err != nil {
		return err
	}
	r.romPath = filename
	return nil
}

// SetKey is the keypad sink handed to the video backend; it may be called
// from any goroutine.
func (r *MachineRunner) SetKey(key byte, pressed bool) {
	r.mutex.Lock()
	r.chip.SetKey(key, pressed)
	r.mutex.Unlock()
}

// Execute runs the machine until Stop, a non-tolerated fault, or the video
// backend going away. Two tickers, one goroutine: a step never interleaves
// with a timer tick.
func (r *MachineRunner) Execute() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	defer r.running.Store(false)

	stepTicker := time.NewTicker(time.Second / time.Duration(r.cycleHz))
	defer stepTicker.Stop()
	timerTicker := time.NewTicker(time.Second / TIMER_HZ)
	defer timerTicker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.video.Done():
			return
		case <-stepTicker.C:
			if !r.stepOnce() {
				return
			}
		case <-timerTicker.C:
			r.tickOnce()
		}
	}
}

// stepOnce executes one instruction and pushes a frame if the display went
// dirty. Returns false when a fault halts the machine.
func (r *MachineRunner) stepOnce() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.chip.Step(); err != nil {
		var merr *MachineError
		if errors.As(err, &merr) && merr.Fault == FaultUnknownOpcode && r.ignoreUnknown {
			fmt.Printf("%s runner\tskipping %v\n", time.Now().Format("15:04:05.000"), err)
			r.chip.ProgramCounter += 2
			return true
		}
		fmt.Printf("%s runner\thalted: %v\n", time.Now().Format("15:04:05.000"), err)
		return false
	}

	if r.chip.DrawFlag {
		compositeFrame(&r.chip.Pixels, r.frame)
		if err := r.video.UpdateFrame(r.frame); err != nil {
			fmt.Printf("%s runner\tframe update: %v\n", time.Now().Format("15:04:05.000"), err)
		}
		r.chip.DrawFlag = false
	}
	return true
}

// tickOnce advances the 60Hz timers and fires the beeper when the sound
// timer expires.
func (r *MachineRunner) tickOnce() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.chip.UpdateTimers()
	if r.chip.SoundFlag {
		r.chip.SoundFlag = false
		if !r.mute && r.beeper != nil {
			r.beeper.Beep()
		}
	}
}

func (r *MachineRunner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

func (r *MachineRunner) IsRunning() bool {
	return r.running.Load()
}

func (r *MachineRunner) Chip() *Chip8 {
	return r.chip
}
