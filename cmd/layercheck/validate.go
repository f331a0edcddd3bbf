package main

import (
	"github.com/milk9111/layerfilter/layer"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var errInvalidSchemes = eris.New("layercheck: invalid schemes")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scheme...]",
		Short: "Build and validate schemes; all embedded schemes when none are named",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				var err error
				if names, err = scheme.Names(); err != nil {
					return err
				}
			}
			return validateSchemes(opts, names)
		},
	}
}

func validateSchemes(opts *options, names []string) error {
	failed := 0
	for _, name := range names {
		s, err := scheme.LoadScheme(opts.dir, name)
		if err != nil {
			failed++
			opts.logger.Error().Err(err).Str("scheme", name).Msg("invalid")
			continue
		}
		if err := layer.CheckSymmetry(s.NumObjectLayers(), s.Pairs); err != nil {
			opts.logger.Warn().Err(err).Str("scheme", name).Msg("asymmetric pair filter")
		}
		opts.logger.Info().
			Str("scheme", name).
			Uint32("object_layers", s.NumObjectLayers()).
			Uint32("broad_phase_layers", s.Table.NumBroadPhaseLayers()).
			Msg("ok")
	}
	if failed > 0 {
		return eris.Wrapf(errInvalidSchemes, "%d of %d", failed, len(names))
	}
	return nil
}
