package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := scheme.LoadConfig()
	if err != nil {
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Fatal().Err(err).Msg("layerviz: configuration")
	}

	name := flag.String("scheme", cfg.Scheme, "scheme name (basename, .yaml optional)")
	dir := flag.String("dir", cfg.SchemeDir, "directory searched for scheme files before the embedded ones")
	bodies := flag.Int("bodies", 150, "dynamic bodies dropped at start")
	seed := flag.Int64("seed", 1, "random seed for the scene")
	watch := flag.Bool("watch", true, "rebuild the world when scheme files change")
	flag.Parse()

	// LoadConfig has already rejected a bad level.
	logger, _ := cfg.Logger(os.Stderr)

	viewer, err := NewViewer(*dir, *name, *bodies, *seed, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("scheme", *name).Msg("layerviz: build world")
	}

	if *watch {
		dirs := []string{*dir}
		if info, err := os.Stat(filepath.Join(*dir, "scripts")); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Join(*dir, "scripts"))
		}
		w, err := scheme.NewWatcher(dirs...)
		if err != nil {
			logger.Warn().Err(err).Str("dir", *dir).Msg("scheme watcher disabled")
		} else {
			defer w.Close()
			viewer.Watch(w)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("layerviz: " + *name)

	if err := ebiten.RunGame(viewer); err != nil {
		logger.Fatal().Err(err).Msg("layerviz")
	}
}
