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

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the leveled logger handed to every component.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) Logger
	WithFields(fields map[string]interface{}) Logger
	SetLevel(level zerolog.Level)
	GetLevel() zerolog.Level
}

type zerologLogger struct {
	logger    zerolog.Logger
	overrides map[string]zerolog.Level
}

func (z *zerologLogger) Trace() *zerolog.Event { return z.logger.Trace() }
func (z *zerologLogger) Debug() *zerolog.Event { return z.logger.Debug() }
func (z *zerologLogger) Info() *zerolog.Event  { return z.logger.Info() }
func (z *zerologLogger) Warn() *zerolog.Event  { return z.logger.Warn() }
func (z *zerologLogger) Error() *zerolog.Event { return z.logger.Error() }
func (z *zerologLogger) With() zerolog.Context { return z.logger.With() }

// WithComponent tags entries with component and applies the level override
// configured for it, if any.
func (z *zerologLogger) WithComponent(component string) Logger {
	child := z.logger.With().Str("component", component).Logger()

	if level, ok := z.overrides[component]; ok {
		child = child.Level(level)
	}

	return &zerologLogger{logger: child, overrides: z.overrides}
}

func (z *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	return &zerologLogger{logger: z.logger.With().Fields(fields).Logger(), overrides: z.overrides}
}

func (z *zerologLogger) SetLevel(level zerolog.Level) {
	z.logger = z.logger.Level(level)
}

func (z *zerologLogger) GetLevel() zerolog.Level {
	return z.logger.GetLevel()
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() Logger {
	return &zerologLogger{logger: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}
