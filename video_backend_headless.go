//go:build headless

package main

import "sync/atomic"

type HeadlessVideoOutput struct {
	started    bool
	config     DisplayConfig
	frameCount uint64
	done       chan struct{}
}

func NewEbitenOutput() (VideoOutput, error) {
	return newHeadlessVideoOutput(), nil
}

func NewTerminalVideo() (VideoOutput, error) {
	return newHeadlessVideoOutput(), nil
}

func newHeadlessVideoOutput() *HeadlessVideoOutput {
	return &HeadlessVideoOutput{
		config: DisplayConfig{
			Width:       SCREEN_WIDTH,
			Height:      SCREEN_HEIGHT,
			Scale:       1,
			RefreshRate: 60,
		},
		done: make(chan struct{}),
	}
}

func (h *HeadlessVideoOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessVideoOutput) Stop() error {
	if h.started {
		h.started = false
		close(h.done)
	}
	return nil
}

func (h *HeadlessVideoOutput) Close() error {
	return h.Stop()
}

func (h *HeadlessVideoOutput) IsStarted() bool {
	return h.started
}

func (h *HeadlessVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	h.config = config
	return nil
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	return h.config
}

func (h *HeadlessVideoOutput) UpdateFrame(buffer []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

func (h *HeadlessVideoOutput) GetRefreshRate() int {
	if h.config.RefreshRate == 0 {
		return 60
	}
	return h.config.RefreshRate
}

func (h *HeadlessVideoOutput) Done() <-chan struct{} {
	return h.done
}

func (h *HeadlessVideoOutput) SetKeypadHandler(fn func(key byte, pressed bool)) {}

func (h *HeadlessVideoOutput) SetHardResetHandler(fn func()) {}
