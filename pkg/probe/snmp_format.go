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
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/carverauto/netscanner/pkg/models"
)

const (
	formatInt        = "int"
	formatTimeticks  = "timeticks"
	formatMACAddress = "mac address"
	formatRemove     = "remove:"

	timetickDuration = 10 * time.Millisecond
)

// FormatSNMPValue applies the format directive of value to a raw value
// ([]byte, string or int64). The result is a string, an int64 or a
// time.Time. ok is false when the raw value cannot be interpreted.
func FormatSNMPValue(raw interface{}, value models.SNMPValue, now time.Time) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}

	var result interface{}

	switch format := value.Format; {
	case format == formatInt:
		n, ok := rawInt(raw)
		if !ok {
			return nil, false
		}

		result = n
	case format == formatTimeticks:
		ticks, ok := rawInt(raw)
		if !ok {
			return nil, false
		}

		return now.Add(-time.Duration(ticks) * timetickDuration).Truncate(time.Second), true
	case strings.HasPrefix(format, "[") && strings.HasSuffix(format, "]") && len(format) >= 2:
		// slices are returned as is, never stripped
		return sliceValue(rawString(raw), format[1:len(format)-1])
	case format == formatMACAddress:
		b, ok := rawBytes(raw)
		if !ok {
			return nil, false
		}

		result = strings.ToUpper(hex.EncodeToString(b))
	case strings.HasPrefix(format, formatRemove):
		s := rawString(raw)
		for _, symbol := range strings.Split(format[len(formatRemove):], " ") {
			if symbol != "" {
				s = strings.ReplaceAll(s, symbol, "")
			}
		}

		result = s
	default:
		if b, ok := raw.([]byte); ok {
			result = validString(b)
		} else {
			result = raw
		}
	}

	if s, ok := result.(string); ok {
		if value.LStrip {
			s = strings.TrimLeftFunc(s, unicode.IsSpace)
		}

		if value.RStrip {
			s = strings.TrimRightFunc(s, unicode.IsSpace)
		}

		result = s
	}

	return result, true
}

func rawInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case []byte, string:
		n, err := strconv.ParseInt(strings.TrimSpace(rawString(v)), 10, 64)

		return n, err == nil
	default:
		return 0, false
	}
}

func rawString(raw interface{}) string {
	switch v := raw.(type) {
	case []byte:
		return validString(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func rawBytes(raw interface{}) ([]byte, bool) {
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// sliceValue implements the "[i]", "[start:stop]" and "[start:stop:step]"
// directives with Python indexing rules, negative indexes included.
func sliceValue(s, spec string) (interface{}, bool) {
	runes := []rune(s)
	parts := strings.Split(spec, ":")

	if len(parts) > 3 {
		return s, true
	}

	bounds := make([]*int, len(parts))

	for i, part := range parts {
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}

		bounds[i] = &n
	}

	if len(parts) == 1 {
		if bounds[0] == nil {
			return nil, false
		}

		idx := *bounds[0]
		if idx < 0 {
			idx += len(runes)
		}

		if idx < 0 || idx >= len(runes) {
			return nil, false
		}

		return string(runes[idx]), true
	}

	step := 1
	if len(parts) == 3 && bounds[2] != nil {
		step = *bounds[2]
	}

	if step == 0 {
		return nil, false
	}

	start, stop := sliceIndices(len(runes), bounds[0], bounds[1], step)

	var out []rune

	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, runes[i])
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, runes[i])
		}
	}

	return string(out), true
}

func sliceIndices(length int, start, stop *int, step int) (int, int) {
	lower, upper := 0, length
	if step < 0 {
		lower, upper = -1, length-1
	}

	clamp := func(bound *int, fallback int) int {
		if bound == nil {
			return fallback
		}

		n := *bound
		if n < 0 {
			n += length
		}

		return max(lower, min(n, upper))
	}

	if step > 0 {
		return clamp(start, lower), clamp(stop, upper)
	}

	return clamp(start, upper), clamp(stop, lower)
}
