// Profiling:
// go build ./cmd/layerbench
// ./layerbench --scheme platformer --profile cpu
// go tool pprof -http=":8000" ./layerbench cpu.pprof

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/milk9111/layerfilter/scheme"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func startProfile(mode string) (interface{ Stop() }, error) {
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	default:
		return nil, eris.Errorf("layerbench: unknown profile mode %q", mode)
	}
}

func newRootCmd(cfg scheme.Config, logger zerolog.Logger) *cobra.Command {
	opts := benchOptions{
		dir:        cfg.SchemeDir,
		scheme:     cfg.Scheme,
		bodies:     500,
		steps:      600,
		candidates: 1_000_000,
		workers:    cfg.Workers,
		seed:       1,
	}
	var profileMode string

	cmd := &cobra.Command{
		Use:           "layerbench",
		Short:         "Step a world built from a scheme and sweep random layer pairs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := startProfile(profileMode)
			if err != nil {
				return err
			}
			if p != nil {
				defer p.Stop()
			}

			r, err := runBench(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}
			logger.Info().
				Str("scheme", r.Scheme).
				Int("bodies", r.Stats.Bodies).
				Uint64("steps", r.Stats.Steps).
				Dur("step_time", r.StepTime).
				Uint64("admitted", r.Stats.Admitted).
				Uint64("rejected", r.Stats.Rejected).
				Msg("simulation")
			logger.Info().
				Int("candidates", r.Candidates).
				Int("admitted", r.Admitted).
				Int("workers", opts.workers).
				Dur("sweep_time", r.SweepTime).
				Msg("sweep")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dir, "dir", opts.dir, "directory searched for scheme files before the embedded ones")
	f.StringVar(&opts.scheme, "scheme", opts.scheme, "scheme to build the world from")
	f.IntVar(&opts.bodies, "bodies", opts.bodies, "dynamic bodies to drop")
	f.IntVar(&opts.steps, "steps", opts.steps, "simulation steps at 60Hz")
	f.IntVar(&opts.candidates, "candidates", opts.candidates, "random layer pairs to sweep")
	f.IntVar(&opts.workers, "workers", opts.workers, "sweep workers")
	f.Int64Var(&opts.seed, "seed", opts.seed, "random seed")
	f.StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	return cmd
}

func main() {
	cfg, err := scheme.LoadConfig()
	if err != nil {
		fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		fallback.Fatal().Err(err).Msg("layerbench: configuration")
	}
	// LoadConfig has already rejected a bad level.
	logger, _ := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("layerbench failed")
		stop()
		os.Exit(1)
	}
}
