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

package cli

import (
	"fmt"
	"io"

	"github.com/carverauto/netscanner/pkg/discovery"
)

func printRun(w io.Writer, run *discovery.Run) {
	fmt.Fprintf(w, "discovery=%s tool=%s state=%s targets=%d succeeded=%d created=%d updated=%d excluded=%d",
		run.Discovery, run.Tool, run.State, run.Targets, run.Succeeded,
		run.Merge.Created, run.Merge.Updated, run.Merge.Excluded)

	if run.Err != nil {
		fmt.Fprintf(w, " error=%q", run.Err.Error())
	}

	fmt.Fprintln(w)
}

func printSequence(w io.Writer, seq *discovery.SequenceRun) {
	for _, step := range seq.Steps {
		fmt.Fprint(w, "  ")
		printRun(w, step)
	}

	fmt.Fprintf(w, "sequence=%s state=%s steps=%d failed=%d\n",
		seq.Sequence, seq.State, len(seq.Steps), len(seq.Failed()))
}
