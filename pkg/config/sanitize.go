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

package config

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Redacted returns cfg as a JSON-shaped map without the fields tagged
// sensitive:"true", suitable for logging.
func Redacted(cfg interface{}) map[string]interface{} {
	out, _ := filterSensitive(reflect.ValueOf(cfg)).(map[string]interface{})
	if out == nil {
		out = map[string]interface{}{}
	}

	return out
}

func filterSensitive(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Struct:
	default:
		if m, ok := rv.Interface().(json.Marshaler); ok {
			return marshalled(m)
		}
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return filterSensitive(rv.Elem())
	case reflect.Struct:
		rt := rv.Type()
		result := make(map[string]interface{}, rt.NumField())

		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() || field.Tag.Get("sensitive") == "true" {
				continue
			}

			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				if tag == "-" {
					continue
				}

				if n, _, _ := strings.Cut(tag, ","); n != "" {
					name = n
				}
			}

			result[name] = filterSensitive(rv.Field(i))
		}

		return result
	case reflect.Slice, reflect.Array:
		result := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result[i] = filterSensitive(rv.Index(i))
		}

		return result
	case reflect.Map:
		result := make(map[string]interface{}, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			if key, ok := iter.Key().Interface().(string); ok {
				result[key] = filterSensitive(iter.Value())
			}
		}

		return result
	default:
		return rv.Interface()
	}
}

func marshalled(m json.Marshaler) interface{} {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	return v
}
