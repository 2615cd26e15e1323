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
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/carverauto/netscanner/pkg/models"
)

// Factory builds a probe from resolved options. Returned errors are
// configuration errors and abort the run before any target is probed.
type Factory func(ctx context.Context, env Env, opts models.Options) (Probe, error)

// Registration describes one tool.
type Registration struct {
	Tool string
	// HostDirected tools probe existing inventory records instead of
	// enumerated addresses.
	HostDirected bool
	New          Factory
}

// Registry maps tool identifiers to factories. It is built once at startup
// and passed to whoever needs to instantiate probes.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds a tool. Registering the same identifier twice is an error.
func (r *Registry) Register(reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.Tool]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, reg.Tool)
	}

	r.entries[reg.Tool] = reg

	return nil
}

// Lookup returns the registration for tool.
func (r *Registry) Lookup(tool string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[tool]
	if !ok {
		return Registration{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}

	return reg, nil
}

// Tools returns the registered identifiers in lexical order.
func (r *Registry) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]string, 0, len(r.entries))
	for tool := range r.entries {
		tools = append(tools, tool)
	}

	sort.Strings(tools)

	return tools
}

// New instantiates the probe registered for tool.
func (r *Registry) New(ctx context.Context, tool string, env Env, opts models.Options) (Probe, error) {
	reg, err := r.Lookup(tool)
	if err != nil {
		return nil, err
	}

	return reg.New(ctx, env, opts)
}
