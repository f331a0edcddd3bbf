package scheme

import (
	"io"
	"runtime"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config is read from the environment by the commands.
type Config struct {
	Scheme    string `config:"LAYERS_SCHEME"`
	SchemeDir string `config:"LAYERS_SCHEME_DIR"`
	Workers   int    `config:"LAYERS_WORKERS"`
	LogLevel  string `config:"LAYERS_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		Scheme:    "reference",
		SchemeDir: "schemes",
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// LoadConfig overlays environment variables on DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "scheme: read environment")
	}
	if cfg.Workers <= 0 {
		return Config{}, eris.Wrapf(ErrInvalidSpec, "LAYERS_WORKERS must be positive, got %d", cfg.Workers)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(err, "scheme: LAYERS_LOG_LEVEL %q", c.LogLevel)
	}
	return lvl, nil
}

// Logger builds the console logger the commands write through.
func (c Config) Logger(out io.Writer) (zerolog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
