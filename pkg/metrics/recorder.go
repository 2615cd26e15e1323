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

// Package metrics exposes discovery engine measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netscanner"

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Recorder counts probe outcomes, run states and merged hosts. It satisfies
// the discovery engine's Recorder interface.
type Recorder struct {
	registry     *prometheus.Registry
	probeResults *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runSeconds   *prometheus.HistogramVec
	hostsMerged  *prometheus.CounterVec
}

// NewRecorder registers the collectors on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		probeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_results_total",
			Help:      "Probe invocations by tool and outcome.",
		}, []string{"tool", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_runs_total",
			Help:      "Discovery runs by terminal state.",
		}, []string{"state"}),
		runSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_run_seconds",
			Help:      "Wall-clock duration of discovery runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"tool"}),
		hostsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hosts_merged_total",
			Help:      "Host records touched by merges, by action.",
		}, []string{"action"}),
	}

	r.registry.MustRegister(r.probeResults, r.runs, r.runSeconds, r.hostsMerged)

	return r
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ProbeCompleted(tool string, succeeded bool) {
	status := statusFailure
	if succeeded {
		status = statusSuccess
	}

	r.probeResults.WithLabelValues(tool, status).Inc()
}

func (r *Recorder) RunFinished(tool, state string, elapsed time.Duration) {
	r.runs.WithLabelValues(state).Inc()
	r.runSeconds.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (r *Recorder) HostsMerged(action string, count int) {
	if count <= 0 {
		return
	}

	r.hostsMerged.WithLabelValues(action).Add(float64(count))
}
