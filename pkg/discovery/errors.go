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

import "errors"

var (
	ErrDiscoveryNotFound = errors.New("discovery not found")
	ErrNoTargetSource    = errors.New("discovery has neither a subnet nor destinations")
	ErrInvalidSubnet     = errors.New("discovery subnet cannot be enumerated")
	ErrNotSequence       = errors.New("discovery is not a sequence")
	ErrIsSequence        = errors.New("sequence discoveries run through the sequence command")
	ErrInvalidTransition = errors.New("invalid run state transition")
	ErrUnknownStep       = errors.New("sequence step references an unknown discovery")
	ErrMalformedResult   = errors.New("stored discovery result cannot be decoded")
)
