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

package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/logger"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ProbeCompleted("arp_request", true)
	r.ProbeCompleted("arp_request", false)
	r.ProbeCompleted("arp_request", false)
	r.RunFinished("arp_request", "completed", 3*time.Second)
	r.RunFinished("arp_request", "skipped", 0)
	r.HostsMerged("created", 2)
	r.HostsMerged("updated", 0)

	assert.InDelta(t, 1, testutil.ToFloat64(r.probeResults.WithLabelValues("arp_request", statusSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.probeResults.WithLabelValues("arp_request", statusFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runs.WithLabelValues("completed")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.hostsMerged.WithLabelValues("created")), 0)

	// zero counts never create a series
	assert.Equal(t, 1, testutil.CollectAndCount(r.hostsMerged))
	assert.Equal(t, 1, testutil.CollectAndCount(r.runSeconds))

	expected := `
# HELP netscanner_discovery_runs_total Discovery runs by terminal state.
# TYPE netscanner_discovery_runs_total counter
netscanner_discovery_runs_total{state="completed"} 1
netscanner_discovery_runs_total{state="skipped"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"netscanner_discovery_runs_total"))
}

func TestServer(t *testing.T) {
	r := NewRecorder()
	r.ProbeCompleted("tcp_connect", true)

	srv, err := Listen("127.0.0.1:0", r, logger.NewTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx) }()

	var body []byte

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)

		return err == nil && resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, string(body), `netscanner_probe_results_total{status="success",tool="tcp_connect"} 1`)

	cancel()
	require.NoError(t, <-done)
}
