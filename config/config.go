package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const EnvPrefix = "POKERDOJO_"

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Addr           string `env:"ADDR" envDefault:":8080"`
	HandHistoryDir string `env:"HAND_HISTORY_DIR" envDefault:"hand_histories"`
	ArchiveDSN     string `env:"ARCHIVE_DSN"` // empty disables the archive

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text or json

	ActionTimeout   time.Duration `env:"ACTION_TIMEOUT" envDefault:"30s"`
	DisconnectGrace time.Duration `env:"DISCONNECT_GRACE" envDefault:"5s"`
	ReadyTimeout    int           `env:"READY_TIMEOUT" envDefault:"10"` // seconds
	ActionQueueSize int           `env:"ACTION_QUEUE_SIZE" envDefault:"16"`

	TableName        string `env:"TABLE_NAME" envDefault:"Dojo"`
	MaxSeats         int    `env:"MAX_SEATS" envDefault:"2"`
	MinPlayers       int    `env:"MIN_PLAYERS" envDefault:"2"`
	SmallBlind       int64  `env:"SMALL_BLIND" envDefault:"50"`
	BigBlind         int64  `env:"BIG_BLIND" envDefault:"100"`
	StartingStack    int64  `env:"STARTING_STACK" envDefault:"10000"`
	RakePercent      int64  `env:"RAKE_PERCENT" envDefault:"5"`
	RakeCap          int64  `env:"RAKE_CAP" envDefault:"100"` // -1 is uncapped
	RakeNoFlopNoDrop bool   `env:"RAKE_NO_FLOP_NO_DROP" envDefault:"true"`
	HandsPerSession  int    `env:"HANDS_PER_SESSION" envDefault:"0"` // 0 is unlimited
}

/*
Load reads the configuration from the environment
  - envFiles are loaded first with godotenv; missing files are ignored
  - variables already set in the environment win over the files
*/
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.MaxSeats < 2:
		return fmt.Errorf("%w: max seats must be at least 2", ErrInvalidConfig)
	case c.MinPlayers < 2 || c.MinPlayers > c.MaxSeats:
		return fmt.Errorf("%w: min players must be between 2 and max seats", ErrInvalidConfig)
	case c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind:
		return fmt.Errorf("%w: blinds must be positive and big blind >= small blind", ErrInvalidConfig)
	case c.StartingStack <= 0:
		return fmt.Errorf("%w: starting stack must be positive", ErrInvalidConfig)
	case c.RakePercent < 0 || c.RakePercent > 100:
		return fmt.Errorf("%w: rake percent must be between 0 and 100", ErrInvalidConfig)
	case c.RakeCap < -1:
		return fmt.Errorf("%w: rake cap must be -1 (uncapped) or positive", ErrInvalidConfig)
	case c.ActionQueueSize <= 0:
		return fmt.Errorf("%w: action queue size must be positive", ErrInvalidConfig)
	case c.ReadyTimeout <= 0:
		return fmt.Errorf("%w: ready timeout must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log format must be text or json", ErrInvalidConfig)
	}
	return nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
