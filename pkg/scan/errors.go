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

package scan

import "errors"

var (
	// Enumeration errors
	ErrInvalidSubnet  = errors.New("invalid subnet")
	ErrNotIPv4        = errors.New("not an IPv4 address")
	ErrInvalidPrefix  = errors.New("invalid CIDR prefix length")
	ErrSubnetTooLarge = errors.New("subnet too large to enumerate")

	errProbePanicked = errors.New("probe panicked")
)
