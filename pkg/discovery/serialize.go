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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/netscanner/pkg/models"
)

const (
	statusField   = "status"
	listSeparator = ", "
)

// SerializeResult flattens a probe result into the JSON payload stored in
// the discovery result log. Times become epoch seconds and lists are joined.
func SerializeResult(result models.ProbeResult) (string, error) {
	flat := make(map[string]interface{}, len(result.Fields)+1)

	for key, value := range result.Fields {
		flat[key] = flattenValue(value)
	}

	flat[statusField] = result.Status

	encoded, err := json.Marshal(flat)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	return string(encoded), nil
}

func flattenValue(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v.Unix()
	case *time.Time:
		if v == nil {
			return nil
		}

		return v.Unix()
	case []string:
		return strings.Join(v, listSeparator)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}

		return strings.Join(parts, listSeparator)
	default:
		return value
	}
}

// DecodeResult reverses SerializeResult. Numbers are kept as json.Number;
// a payload without a status is a successful result.
func DecodeResult(payload string) (models.ProbeResult, error) {
	if strings.TrimSpace(payload) == "" {
		return models.Failed(), nil
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(payload)))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return models.ProbeResult{}, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}

	status := true

	if raw, ok := fields[statusField]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return models.ProbeResult{}, fmt.Errorf("%w: status is %T", ErrMalformedResult, raw)
		}

		status = b

		delete(fields, statusField)
	}

	if !status {
		return models.Failed(), nil
	}

	return models.Succeeded(fields), nil
}
