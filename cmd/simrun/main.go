// simrun steps a scenario headless for a fixed number of frames, optionally
// driving it with a mission script and recording a trace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"worldsim/internal/config"
	"worldsim/internal/engine"
	"worldsim/internal/logging"
	"worldsim/internal/scenario"
	"worldsim/internal/script"
	"worldsim/internal/trace"
	"worldsim/internal/world"
)

type options struct {
	Config   string `env:"WORLDSIM_CONFIG"`
	Scenario string `env:"WORLDSIM_SCENARIO" envDefault:"assets/scenarios/harbor.yaml"`
	Script   string `env:"WORLDSIM_SCRIPT"`
	Trace    string `env:"WORLDSIM_TRACE"`
	Save     string `env:"WORLDSIM_SAVE"`
	Frames   int    `env:"WORLDSIM_FRAMES" envDefault:"600"`
}

// summary is what a finished run reports.
type summary struct {
	Frames    int
	GameTime  float32
	Objects   int
	Destroyed int
	Damage    int
	Traced    int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "simrun: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	if err := env.Parse(&opts); err != nil {
		return options{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("simrun", flag.ContinueOnError)
	fs.StringVar(&opts.Config, "config", opts.Config, "config file (yaml, json or toml)")
	fs.StringVar(&opts.Scenario, "scenario", opts.Scenario, "scenario file")
	fs.StringVar(&opts.Script, "script", opts.Script, "lua mission script")
	fs.StringVar(&opts.Trace, "trace", opts.Trace, "write a zstd jsonl event trace here")
	fs.StringVar(&opts.Save, "save", opts.Save, "snapshot the final state to this scenario file")
	fs.IntVar(&opts.Frames, "frames", opts.Frames, "frames to simulate")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Frames < 0 {
		return options{}, errors.New("frames must not be negative")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, logOut io.Writer) (summary, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return summary{}, err
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return summary{}, err
	}
	log := logging.New(cfg.Log, logOut).With().Str("component", "simrun").Logger()

	file, err := scenario.Load(opts.Scenario)
	if err != nil {
		return summary{}, err
	}
	w, err := world.New(cfg, file.BuildDefinitions(), logging.New(cfg.Log, logOut))
	if err != nil {
		return summary{}, err
	}
	if err := file.Apply(w); err != nil {
		return summary{}, err
	}

	var sum summary
	w.DamageDelivered.AddListener(func(world.Damage) { sum.Damage++ })
	w.Registry().Destroyed.AddListener(func(engine.Object) { sum.Destroyed++ })

	var rec *trace.Recorder
	if opts.Trace != "" {
		out, err := trace.Create(opts.Trace)
		if err != nil {
			return summary{}, err
		}
		defer out.Close()
		rec = trace.Attach(w, out)
	}

	var host *script.Host
	if opts.Script != "" {
		host = script.NewHost(w, w.Logger())
		if err := host.RunFile(opts.Script); err != nil {
			return summary{}, err
		}
	}

	log.Info().
		Str("scenario", opts.Scenario).
		Int("frames", opts.Frames).
		Int("objects", w.Registry().Len()).
		Int("garages", len(w.Garages())).
		Msg("starting")

	start := time.Now()
	dt := cfg.Physics.FixedTimeStep
	for sum.Frames < opts.Frames {
		if err := ctx.Err(); err != nil {
			log.Warn().Int("frame", sum.Frames).Msg("interrupted")
			break
		}
		w.Update(dt)
		if host != nil {
			if err := host.Frame(); err != nil {
				return sum, err
			}
		}
		sum.Frames++
	}
	sum.GameTime = w.GameTime()
	sum.Objects = w.Registry().Len()
	if rec != nil {
		sum.Traced = rec.Written()
		if err := rec.Err(); err != nil {
			return sum, err
		}
	}

	if opts.Save != "" {
		if err := scenario.Snapshot(w, file).Save(opts.Save); err != nil {
			return sum, err
		}
	}

	logSummary(log, sum, time.Since(start))
	return sum, nil
}

func logSummary(log zerolog.Logger, sum summary, wall time.Duration) {
	log.Info().
		Int("frames", sum.Frames).
		Float32("gameTime", sum.GameTime).
		Int("objects", sum.Objects).
		Int("destroyed", sum.Destroyed).
		Int("damage", sum.Damage).
		Int("traced", sum.Traced).
		Dur("wall", wall).
		Msg("done")
}
