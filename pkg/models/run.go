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

import "time"

// RunEvent describes a discovery run reaching a published state.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Discovery string    `json:"discovery"`
	Tool      string    `json:"tool"`
	State     string    `json:"state"`
	Targets   int       `json:"targets"`
	Succeeded int       `json:"succeeded"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
