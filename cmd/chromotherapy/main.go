package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/chromotherapy/audio"
	"github.com/lixenwraith/chromotherapy/chroma"
	"github.com/lixenwraith/chromotherapy/config"
	"github.com/lixenwraith/chromotherapy/core"
	"github.com/lixenwraith/chromotherapy/display"
	"github.com/lixenwraith/chromotherapy/mqtt"
)

var debugFlag = flag.Bool("debug", false, "Write debug log to logs/"+logFileName)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "chromotherapy: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	var surfaces chroma.Surfaces
	opts := []chroma.Opt{
		chroma.WithPace(cfg.Animation.Pace),
		chroma.WithGo(core.Go),
		chroma.WithTurnHook(func(turn chroma.Turn) {
			log.Printf("Cycle %d turn %d: %s rising=%v", turn.Cycle, turn.Position, turn.Channel, turn.Rising)
		}),
	}

	// Mirrors are set up before the screen so their errors print on a normal terminal
	if cfg.MQTT.Enabled() {
		publisher, err := mqtt.New(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt mirror: %w", err)
		}
		defer publisher.Close()
		surfaces = append(surfaces, publisher)
		log.Printf("Mirroring colors to %s on %s", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}

	if cfg.Audio.Enabled {
		chime := audio.NewChime(cfg.Audio.Volume)
		if err := chime.Initialize(); err != nil {
			// Non-fatal, the animation runs without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer chime.Cleanup()
			opts = append(opts, chroma.WithTurnHook(chime.PlayTurn))
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	core.SetCrashReset(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	term := display.New(screen)
	surfaces = append(chroma.Surfaces{term}, surfaces...)

	loop := chroma.NewLoop(surfaces, opts...)
	term.Bind(loop)

	if cfg.Animation.AutoStart {
		loop.Restart()
	}

	term.Run()

	loop.Cancel()
	loop.Wait()
	log.Printf("Exiting, %d publishes dropped", loop.Dropped())
	return nil
}
