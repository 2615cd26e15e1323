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

package probe

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/carverauto/netscanner/pkg/models"
)

const maxPort = 65535

// engineOptionKeys are consumed by the orchestrator, not by probes.
var engineOptionKeys = map[string]struct{}{
	"workers":    {},
	"timeout":    {},
	"rate_limit": {},
}

// decodeOptions translates a generic option mapping into the typed config
// pointed to by dst. Only keys matching a json tag of dst are copied.
func decodeOptions(tool string, env Env, opts models.Options, dst interface{}) error {
	known := jsonFieldNames(dst)
	filtered := make(map[string]interface{}, len(opts))

	var unknown []string

	for key, value := range opts {
		if _, ok := known[key]; ok {
			if value != nil {
				filtered[key] = value
			}

			continue
		}

		if _, ok := engineOptionKeys[key]; ok {
			continue
		}

		unknown = append(unknown, key)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)

		if env.Strict {
			return fmt.Errorf("%w for %s: %s", ErrUnknownOption, tool, strings.Join(unknown, ", "))
		}

		env.log(tool).Debug().Strs("options", unknown).Msg("Ignoring unknown options")
	}

	if len(filtered) == 0 {
		return nil
	}

	raw, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("%w for %s: %w", ErrInvalidOption, tool, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrInvalidOption, tool, err)
	}

	return nil
}

func jsonFieldNames(v interface{}) map[string]struct{} {
	names := make(map[string]struct{})

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return names
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Tag.Get("json") == "" {
			for name := range jsonFieldNames(reflect.New(field.Type).Interface()) {
				names[name] = struct{}{}
			}

			continue
		}

		if !field.IsExported() {
			continue
		}

		name := field.Name

		if tag := field.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}

			if idx := strings.Index(tag, ","); idx != -1 {
				tag = tag[:idx]
			}

			if tag != "" {
				name = tag
			}
		}

		names[name] = struct{}{}
	}

	return names
}

func validatePort(tool, name string, port int) error {
	if port <= 0 || port > maxPort {
		return fmt.Errorf("%w for %s: %s=%d", ErrInvalidOption, tool, name, port)
	}

	return nil
}

func missingOption(tool, name string) error {
	return fmt.Errorf("%w for %s: %s", ErrMissingOption, tool, name)
}
