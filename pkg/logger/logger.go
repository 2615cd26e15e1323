/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects level, output and format. Components overrides the level
// of loggers derived with WithComponent, e.g. {"probe": "trace"}.
type Config struct {
	Level      string            `json:"level" yaml:"level"`
	Debug      bool              `json:"debug" yaml:"debug"`
	Output     string            `json:"output" yaml:"output"`
	TimeFormat string            `json:"time_format" yaml:"time_format"`
	Console    bool              `json:"console" yaml:"console"`
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init builds a logger from config, installs it as the zerolog global and
// returns it.
func Init(config *Config) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output := os.Stderr
	if strings.EqualFold(config.Output, "stdout") {
		output = os.Stdout
	}

	l, err := NewWithWriter(output, config)
	if err != nil {
		return nil, err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	log.Logger = l.(*zerologLogger).logger

	return l, nil
}

// NewWithWriter builds a logger writing to w. Output is ignored.
func NewWithWriter(w io.Writer, config *Config) (Logger, error) {
	level, err := config.level()
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]zerolog.Level, len(config.Components))

	for component, name := range config.Components {
		l, err := zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", component, err)
		}

		overrides[component] = l
	}

	if config.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return &zerologLogger{
		logger:    zerolog.New(w).Level(level).With().Timestamp().Logger(),
		overrides: overrides,
	}, nil
}

func (c *Config) level() (zerolog.Level, error) {
	if c.Debug {
		return zerolog.DebugLevel, nil
	}

	if c.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(strings.ToLower(c.Level))
}

// LevelForVerbosity maps an operator verbosity (0..3) to a log level.
// 0 keeps the console quiet, 1 prints per-target results, 2 prints every
// probed destination and 3 prints raw request traces.
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New wraps an existing zerolog logger.
func New(l zerolog.Logger) Logger {
	return &zerologLogger{logger: l}
}
