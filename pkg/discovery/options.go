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

package discovery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
	"github.com/carverauto/netscanner/pkg/scan"
)

// reservedOptions belong to the command line and never reach a probe.
var reservedOptions = []string{
	"verbosity",
	"settings",
	"pythonpath",
	"traceback",
	"no_color",
	"force_color",
	"discovery",
	"disabled",
	"failing",
	"destinations",
	"config",
}

// ResolveOptions merges option layers, later layers overriding earlier ones,
// and strips the reserved keys.
func ResolveOptions(layers ...models.Options) models.Options {
	resolved := models.Options{}

	for _, layer := range layers {
		for k, v := range layer {
			resolved[k] = v
		}
	}

	for _, key := range reservedOptions {
		delete(resolved, key)
	}

	return resolved
}

// resolveDiscoveryOptions layers command, scanner and discovery options.
func resolveDiscoveryOptions(discovery *models.Discovery, command models.Options) (models.Options, error) {
	scannerOpts, err := models.ParseOptions(discovery.Scanner.Options)
	if err != nil {
		return nil, fmt.Errorf("scanner %q: %w", discovery.Scanner.Name, err)
	}

	discoveryOpts, err := models.ParseOptions(discovery.Options)
	if err != nil {
		return nil, fmt.Errorf("discovery %q: %w", discovery.Name, err)
	}

	return ResolveOptions(command, scannerOpts, discoveryOpts), nil
}

// runSettings are the engine parameters of one run.
type runSettings struct {
	workers   int
	timeout   time.Duration
	rateLimit float64
}

// resolveSettings picks workers and timeout from the request, then the
// discovery record, then the options, then the engine defaults.
func resolveSettings(cfg Config, discovery *models.Discovery, req RunRequest, opts models.Options) (runSettings, error) {
	s := runSettings{
		workers:   cfg.Workers,
		timeout:   cfg.Timeout,
		rateLimit: cfg.RateLimit,
	}

	if s.workers <= 0 {
		s.workers = scan.DefaultWorkers
	}

	if n, ok, err := optionFloat(opts, "workers"); err != nil {
		return s, err
	} else if ok && n > 0 {
		s.workers = int(n)
	}

	if n, ok, err := optionFloat(opts, "timeout"); err != nil {
		return s, err
	} else if ok && n > 0 {
		s.timeout = seconds(n)
	}

	if n, ok, err := optionFloat(opts, "rate_limit"); err != nil {
		return s, err
	} else if ok {
		s.rateLimit = n
	}

	if discovery.Workers > 0 {
		s.workers = discovery.Workers
	}

	if discovery.Timeout > 0 {
		s.timeout = time.Duration(discovery.Timeout) * time.Second
	}

	if req.Workers > 0 {
		s.workers = req.Workers
	}

	if req.Timeout > 0 {
		s.timeout = req.Timeout
	}

	return s, nil
}

func seconds(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}

func optionFloat(opts models.Options, key string) (float64, bool, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("%w: %s=%v", probe.ErrInvalidOption, key, raw)
		}

		return n, true, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %s=%q", probe.ErrInvalidOption, key, v)
		}

		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %s=%v", probe.ErrInvalidOption, key, raw)
	}
}
