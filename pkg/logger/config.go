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
	"os"
	"strconv"
	"strings"
)

const (
	envLevel      = "LOG_LEVEL"
	envOutput     = "LOG_OUTPUT"
	envTimeFormat = "LOG_TIME_FORMAT"
	envConsole    = "LOG_CONSOLE"
	envDebug      = "DEBUG"
)

// DefaultConfig logs JSON at info level to stderr, keeping stdout for
// command output. LOG_* variables apply.
func DefaultConfig() *Config {
	c := &Config{
		Level:  "info",
		Output: "stderr",
	}

	c.ApplyEnv()

	return c
}

// ApplyEnv overrides fields with the LOG_* and DEBUG variables that are set.
func (c *Config) ApplyEnv() {
	for key, dst := range map[string]*string{
		envLevel:      &c.Level,
		envOutput:     &c.Output,
		envTimeFormat: &c.TimeFormat,
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	c.Debug = envBool(envDebug, c.Debug)
	c.Console = envBool(envConsole, c.Console)
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))

	switch v {
	case "":
		return fallback
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}
