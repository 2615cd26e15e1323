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

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Options is a free-form option mapping decoded from a JSON object blob.
type Options map[string]interface{}

// ParseOptions decodes an option blob. An empty blob yields empty options.
func ParseOptions(blob string) (Options, error) {
	opts := Options{}

	if strings.TrimSpace(blob) == "" {
		return opts, nil
	}

	if err := json.Unmarshal([]byte(blob), &opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return opts, nil
}

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}

	return c
}

// Scanner binds a tool identifier to tool-level options shared by every
// discovery that references it.
type Scanner struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Tool    string `json:"tool"`
	Options string `json:"options"`
}

// Discovery is an operator-defined scan. Only LastScan is written by the engine.
type Discovery struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	SubnetID *int64     `json:"subnet_id,omitempty"`
	Enabled  bool       `json:"enabled"`
	Scanner  Scanner    `json:"scanner"`
	Timeout  int        `json:"timeout"`
	Workers  int        `json:"workers"`
	Options  string     `json:"options"`
	Interval int        `json:"interval"`
	LastScan *time.Time `json:"last_scan,omitempty"`
}

// Tool returns the tool identifier of the bound scanner.
func (d *Discovery) Tool() string {
	return d.Scanner.Tool
}

// DiscoveryResult is an append-only audit row for one probed target.
type DiscoveryResult struct {
	ID           int64     `json:"id"`
	DiscoveryID  int64     `json:"discovery_id"`
	RunID        string    `json:"run_id"`
	Address      string    `json:"address"`
	Options      string    `json:"options"`
	ScanDatetime time.Time `json:"scan_datetime"`
	Results      string    `json:"results"`
}

// SequenceStep is one entry of a sequence option blob.
type SequenceStep struct {
	Discovery string  `json:"discovery"`
	Wait      float64 `json:"wait"`
}

// WaitDuration converts the step wait in seconds to a duration.
func (s SequenceStep) WaitDuration() time.Duration {
	if s.Wait <= 0 {
		return 0
	}

	return time.Duration(s.Wait * float64(time.Second))
}

// ParseSequence decodes a sequence option blob.
func ParseSequence(blob string) ([]SequenceStep, error) {
	var steps []SequenceStep

	if err := json.Unmarshal([]byte(blob), &steps); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSequence, err)
	}

	for i, step := range steps {
		if step.Discovery == "" {
			return nil, fmt.Errorf("%w: step %d has no discovery", ErrInvalidSequence, i)
		}
	}

	return steps, nil
}
