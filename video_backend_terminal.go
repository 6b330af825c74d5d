//go:build !headless

// video_backend_terminal.go - ANSI terminal video backend for Intuition Chip-8

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
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/term"
)

// Terminals report key presses but never key releases, so each press is
// held down for a fixed decay window and released when it stops repeating.
const keyDecay = 150 * time.Millisecond

// terminalKeypad maps stdin bytes onto the hex keypad, same 4x4 layout as
// the windowed backend.
var terminalKeypad = map[byte]byte{
	'1': 0x0, '2': 0x1, '3': 0x2, '4': 0x3,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0x7,
	'a': 0x8, 's': 0x9, 'd': 0xA, 'f': 0xB,
	'z': 0xC, 'x': 0xD, 'c': 0xE, 'v': 0xF,
}

// TerminalVideo paints the 64x32 grid into the controlling terminal with
// half-block characters, two display rows per text line, and feeds keypad
// state back from raw stdin. Esc or Ctrl+C quits, Ctrl+R cold-starts.
type TerminalVideo struct {
	mutex        sync.Mutex
	started      bool
	config       DisplayConfig
	frameCount   uint64
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State

	keypadHandler    func(key byte, pressed bool)
	hardResetHandler func()
	lastPress        [NUM_KEYS]time.Time
	keyDown          [NUM_KEYS]bool
}

func NewTerminalVideo() (VideoOutput, error) {
	return &TerminalVideo{
		config: DisplayConfig{
			Width:       SCREEN_WIDTH,
			Height:      SCREEN_HEIGHT,
			Scale:       1,
			RefreshRate: 60,
		},
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func (tv *TerminalVideo) Start() error {
	tv.mutex.Lock()
	defer tv.mutex.Unlock()
	if tv.started {
		return nil
	}

	tv.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(tv.fd)
	if err != nil {
		return &VideoError{Operation: "terminal start", Details: "failed to set raw mode", Err: err}
	}
	tv.oldTermState = oldState

	if err := syscall.SetNonblock(tv.fd, true); err != nil {
		_ = term.Restore(tv.fd, tv.oldTermState)
		tv.oldTermState = nil
		return &VideoError{Operation: "terminal start", Details: "failed to set nonblocking stdin", Err: err}
	}
	tv.nonblockSet = true

	// Hide the cursor and clear once; frames repaint from home position
	fmt.Print("\033[?25l\033[2J")

	tv.started = true
	go tv.inputLoop()
	return nil
}

func (tv *TerminalVideo) inputLoop() {
	defer close(tv.done)
	buf := make([]byte, 1)
	decay := time.NewTicker(keyDecay / 3)
	defer decay.Stop()

	for {
		select {
		case <-tv.stopCh:
			return
		case <-decay.C:
			tv.releaseStaleKeys()
		default:
		}

		n, err := syscall.Read(tv.fd, buf)
		if n > 0 {
			if !tv.handleByte(buf[0]) {
				return
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

// handleByte routes one raw stdin byte. Returns false when the session
// should end.
func (tv *TerminalVideo) handleByte(b byte) bool {
	switch b {
	case 0x1B, 0x03: // Esc, Ctrl+C
		return false
	case 0x12: // Ctrl+R
		tv.mutex.Lock()
		handler := tv.hardResetHandler
		tv.mutex.Unlock()
		if handler != nil {
			handler()
		}
		return true
	}

	if key, ok := terminalKeypad[b]; ok {
		tv.mutex.Lock()
		tv.lastPress[key] = time.Now()
		wasDown := tv.keyDown[key]
		tv.keyDown[key] = true
		handler := tv.keypadHandler
		tv.mutex.Unlock()
		if handler != nil && !wasDown {
			handler(key, true)
		}
	}
	return true
}

// releaseStaleKeys synthesizes key-up events for keys that have stopped
// auto-repeating.
func (tv *TerminalVideo) releaseStaleKeys() {
	now := time.Now()
	var released []byte

	tv.mutex.Lock()
	handler := tv.keypadHandler
	for key := byte(0); key < NUM_KEYS; key++ {
		if tv.keyDown[key] && now.Sub(tv.lastPress[key]) > keyDecay {
			tv.keyDown[key] = false
			released = append(released, key)
		}
	}
	tv.mutex.Unlock()

	if handler != nil {
		for _, key := range released {
			handler(key, false)
		}
	}
}

func (tv *TerminalVideo) Stop() error {
	tv.mutex.Lock()
	if !tv.started {
		tv.mutex.Unlock()
		return nil
	}
	tv.started = false
	tv.mutex.Unlock()

	tv.stopped.Do(func() {
		close(tv.stopCh)
	})
	<-tv.done
	if tv.nonblockSet {
		_ = syscall.SetNonblock(tv.fd, false)
		tv.nonblockSet = false
	}
	if tv.oldTermState != nil {
		_ = term.Restore(tv.fd, tv.oldTermState)
		tv.oldTermState = nil
	}
	// Restore the cursor and drop below the rendered frame
	fmt.Print("\033[?25h\n")
	return nil
}

func (tv *TerminalVideo) Close() error {
	return tv.Stop()
}

func (tv *TerminalVideo) IsStarted() bool {
	tv.mutex.Lock()
	defer tv.mutex.Unlock()
	return tv.started
}

func (tv *TerminalVideo) Done() <-chan struct{} {
	return tv.done
}

func (tv *TerminalVideo) UpdateFrame(buffer []byte) error {
	tv.mutex.Lock()
	started := tv.started
	tv.mutex.Unlock()
	if !started {
		return nil
	}

	// Raw mode needs explicit carriage returns
	art := strings.ReplaceAll(frameToText(buffer), "\n", "\r\n")
	fmt.Print("\033[H" + art)
	atomic.AddUint64(&tv.frameCount, 1)
	return nil
}

func (tv *TerminalVideo) SetDisplayConfig(config DisplayConfig) error {
	tv.mutex.Lock()
	tv.config = config
	tv.mutex.Unlock()
	return nil
}

func (tv *TerminalVideo) GetDisplayConfig() DisplayConfig {
	tv.mutex.Lock()
	defer tv.mutex.Unlock()
	return tv.config
}

func (tv *TerminalVideo) GetFrameCount() uint64 {
	return atomic.LoadUint64(&tv.frameCount)
}

func (tv *TerminalVideo) GetRefreshRate() int {
	return tv.config.RefreshRate
}

func (tv *TerminalVideo) SetKeypadHandler(fn func(key byte, pressed bool)) {
	tv.mutex.Lock()
	tv.keypadHandler = fn
	tv.mutex.Unlock()
}

func (tv *TerminalVideo) SetHardResetHandler(fn func()) {
	tv.mutex.Lock()
	tv.hardResetHandler = fn
	tv.mutex.Unlock()
}
