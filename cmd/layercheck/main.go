package main

import (
	"os"

	"github.com/milk9111/layerfilter/scheme"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	dir    string
	logger zerolog.Logger
}

func newRootCmd(cfg scheme.Config, logger zerolog.Logger) *cobra.Command {
	opts := &options{dir: cfg.SchemeDir, logger: logger}

	root := &cobra.Command{
		Use:           "layercheck",
		Short:         "Validate collision layer schemes and print their decision tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dir, "dir", cfg.SchemeDir, "directory searched for scheme files before the embedded ones")

	root.AddCommand(newValidateCmd(opts), newTableCmd(opts, cfg.Scheme))
	return root
}

func main() {
	cfg, err := scheme.LoadConfig()
	if err != nil {
		fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		fallback.Fatal().Err(err).Msg("layercheck: configuration")
	}
	// LoadConfig has already rejected a bad level.
	logger, _ := cfg.Logger(os.Stderr)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("layercheck failed")
		os.Exit(1)
	}
}
