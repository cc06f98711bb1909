package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/classkit/classaudio/audio"
	"github.com/classkit/classaudio/monitor"
	"github.com/classkit/classaudio/options"
)

func main() {
	var soundRoot = flag.String("sounds", "", "Local directory backing /sounds/ paths")
	var musicURL = flag.String("music", "", "Background music URL or /sounds/ path to loop")
	var alertURL = flag.String("alert", "", "Alert sound URL or /sounds/ path to fire")
	var alertDelay = flag.Duration("alert-delay", 3*time.Second, "Delay before firing the alert")
	var masterVol = flag.Float64("volume", 0.7, "Master volume (0-1)")
	var meter = flag.Bool("meter", false, "Run the microphone noise meter")
	var help = flag.Bool("help", false, "Show help message")

	flag.Parse()

	if *help {
		fmt.Println("Classroom audio engine demo")
		flag.PrintDefaults()
		return
	}

	cfg := options.Default()
	cfg.MasterVolume = options.ClampVolume(*masterVol)

	engine, err := audio.SharedWith(cfg, nil)
	if err != nil {
		log.Fatalf("No audio available: %v", err)
	}
	defer engine.Close()

	if *soundRoot != "" {
		engine.Cache().SetSoundRoot(*soundRoot)
	}

	ctx := context.Background()

	if *musicURL != "" {
		log.Printf("Starting background music: %s", *musicURL)
		if err := engine.Music().Play(ctx, *musicURL, -1); err != nil {
			log.Printf("Background music failed: %v", err)
		}
	}

	if *alertURL != "" {
		time.AfterFunc(*alertDelay, func() {
			log.Printf("Firing alert: %s", *alertURL)
			engine.Alerts().Play(ctx, *alertURL, &audio.AlertCallbacks{
				OnPlayStart: func() { log.Println("Alert started (music ducked)") },
				OnPlayEnd:   func() { log.Println("Alert finished (music restored)") },
				OnError:     func(err error) { log.Printf("Alert error: %v", err) },
			})
		})
	}

	var meterMon *monitor.Monitor
	if *meter {
		mic, err := audio.NewMicrophone(audio.SampleRate)
		if err != nil {
			log.Fatalf("Could not open microphone: %v", err)
		}
		meterMon = monitor.New()
		meterMon.OnLevelChange(func(level float64) {
			// 60 updates a second; rewrite one line instead of scrolling.
			fmt.Printf("\rnoise level: %5.1f", level)
		})
		if !meterMon.StartMonitoring(mic) {
			log.Fatalf("Could not start noise monitoring")
		}
		log.Println("Noise meter running. Press Ctrl-C to stop.")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	if meterMon != nil {
		meterMon.StopMonitoring()
	}
	engine.Music().Stop()
	engine.Alerts().Stop()
	log.Println("Shutting down.")
}
