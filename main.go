package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cliplab/cliplab/config"
	"github.com/cliplab/cliplab/engine"
	"github.com/cliplab/cliplab/log"
	"github.com/cliplab/cliplab/media"
	"github.com/spf13/viper"
)

// Headless transport check: probes a file, plays it briefly without any
// window attached, and prints the observed position. Useful for verifying
// the native engine setup on a machine before wiring the GUI.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <media-file>\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]

	if err := config.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Setup(viper.GetString("logs.level"))

	info, err := media.Probe(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error probing %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %dx%d %s, duration %s, %d subtitle track(s)\n",
		path, info.Width, info.Height, info.VideoCodec, info.Duration, len(info.Subtitles))

	e, err := engine.New(config.LoadPlayback())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	if err := e.LoadFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := e.Play(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	time.Sleep(2 * time.Second)

	pos, dur := e.PositionDuration()
	fmt.Printf("position %s / %s, playing=%v\n", pos, dur, e.IsPlaying())
}
