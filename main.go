// main.go - Main entry point for the Intuition Chip-8 Virtual Machine

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
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\nIntuition Chip-8")
	fmt.Println("A faithful hexadecimal-keypad machine in the Intuition Engine mould.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionChip8")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		useTerminal   bool
		scale         int
		cycleHz       int
		wrapSprites   bool
		mute          bool
		ignoreUnknown bool
		fullscreen    bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&useTerminal, "terminal", false, "Render into the terminal instead of a window")
	flagSet.IntVar(&scale, "scale", DEFAULT_VIDEO_SCALE, "Integer window magnification of the 64x32 display")
	flagSet.IntVar(&cycleHz, "cycles", DEFAULT_CYCLE_HZ, "Instruction cadence in Hz (timers always run at 60Hz)")
	flagSet.BoolVar(&wrapSprites, "wrap", false, "Wrap sprites around the screen edges instead of clipping")
	flagSet.BoolVar(&mute, "mute", false, "Disable the beeper")
	flagSet.BoolVar(&ignoreUnknown, "ignore-unknown", false, "Skip past unknown opcodes instead of halting")
	flagSet.BoolVar(&fullscreen, "fullscreen", false, "Start the window fullscreen")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_chip8 [-terminal] [-scale N] [-cycles N] [-wrap] [-mute] [-ignore-unknown] [-fullscreen] romfile")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	chip := NewChip8(time.Now().UnixNano())
	chip.SetSpriteWrap(wrapSprites)

	backend := VIDEO_BACKEND_EBITEN
	if useTerminal {
		backend = VIDEO_BACKEND_TERMINAL
	}
	video, err := NewVideoOutput(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}
	if err := video.SetDisplayConfig(DisplayConfig{
		Width:       SCREEN_WIDTH,
		Height:      SCREEN_HEIGHT,
		Scale:       ClampScale(scale),
		RefreshRate: 60,
		Fullscreen:  fullscreen,
	}); err != nil {
		fmt.Printf("Failed to configure video: %v\n", err)
		os.Exit(1)
	}

	beeper := NewBeeper(SAMPLE_RATE)
	var audio *OtoPlayer
	if !mute {
		audio, err = NewOtoPlayer(SAMPLE_RATE)
		if err != nil {
			fmt.Printf("Failed to initialize sound: %v\n", err)
			os.Exit(1)
		}
		audio.SetupPlayer(beeper)
	}

	runner := NewMachineRunner(chip, video, beeper, MachineRunnerConfig{
		CycleHz:       cycleHz,
		IgnoreUnknown: ignoreUnknown,
		Mute:          mute,
	})

	if err := runner.LoadProgram(filename); err != nil {
		fmt.Printf("Error loading program: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Starting Chip-8 with program: %s\n", filename)

	video.SetKeypadHandler(runner.SetKey)
	video.SetHardResetHandler(runner.HardReset)

	if err := video.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	if audio != nil {
		audio.Start()
	}

	go runner.Execute()

	<-video.Done()

	runner.Stop()
	if audio != nil {
		audio.Close()
	}
	_ = video.Close()
}
