package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Port                 int           `env:"PORT,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,required=true"`
	QueueSize            int           `env:"QUEUE_SIZE,required=true"`
	ShutdownGrace        time.Duration `env:"SHUTDOWN_GRACE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	ReplayWindow         int           `env:"REPLAY_WINDOW,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	AuthSecret           string        `env:"AUTH_SECRET,required=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,required=true"`
}

// CharacterRune validates that the configured replacement is one character.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
