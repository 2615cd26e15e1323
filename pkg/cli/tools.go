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
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/carverauto/netscanner/pkg/discovery"
	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
)

type flagKind int

const (
	intFlag flagKind = iota
	stringFlag
	boolFlag
	listFlag
)

// toolFlag is a command line flag forwarded to the probe as an option. The
// option key is the flag name with dashes replaced by underscores.
type toolFlag struct {
	name  string
	kind  flagKind
	usage string
}

var (
	portFlag    = toolFlag{"port", intFlag, "Destination port"}
	retriesFlag = toolFlag{"retries", intFlag, "SNMP retries"}
	snmpFlags   = []toolFlag{
		{"version", stringFlag, "SNMP version name (e.g. v1, v2c)"},
		{"community", stringFlag, "SNMP community"},
		portFlag,
		retriesFlag,
	}
)

type toolSpec struct {
	tool  string
	short string
	flags []toolFlag
}

var toolSpecs = []toolSpec{
	{probe.ToolARPRequest, "Resolve MAC addresses with ARP requests",
		[]toolFlag{{"interface", stringFlag, "Network interface to send requests on"}}},
	{probe.ToolICMPReply, "Check hosts answer ICMP echo requests", nil},
	{probe.ToolRawICMPReply, "Check hosts answer ICMP echo requests using a raw socket", nil},
	{probe.ToolTCPConnect, "Check a TCP port accepts connections", []toolFlag{portFlag}},
	{probe.ToolHostname, "Resolve host names with reverse DNS", nil},
	{probe.ToolNetBIOSInfo, "Query NetBIOS names and SMB details",
		[]toolFlag{portFlag, {"port-names", intFlag, "NetBIOS name service port"}}},
	{probe.ToolSMBInfo, "Query SMB server details", []toolFlag{portFlag}},
	{probe.ToolSNMPRequest, "Read an SNMP configuration from each address",
		append([]toolFlag{{"configuration", stringFlag, "SNMP configuration name"}}, snmpFlags...)},
	{probe.ToolSNMPFindModel, "Detect device models over SNMP",
		append([]toolFlag{
			{"skip-existing", boolFlag, "Skip addresses whose hosts already have a device model"},
			{"initial-configuration", stringFlag, "SNMP configuration tried first"},
		}, snmpFlags...)},
	{probe.ToolSNMPGet, "Read the device model configuration of known hosts", []toolFlag{portFlag, retriesFlag}},
	{probe.ToolSNMPGetInfo, "Fill host fields from their device model configuration",
		[]toolFlag{portFlag, retriesFlag}},
	{probe.ToolZabbixAgent, "Query Zabbix agents",
		[]toolFlag{portFlag, {"items", listFlag, "Agent items to request"}}},
}

func (a *app) toolCommands() []*cobra.Command {
	commands := make([]*cobra.Command, 0, len(toolSpecs))

	for _, spec := range toolSpecs {
		commands = append(commands, a.toolCommand(spec))
	}

	return commands
}

// toolCommand runs every enabled discovery bound to the tool. Flags set on
// the command line become command-level options.
func (a *app) toolCommand(spec toolSpec) *cobra.Command {
	var common runFlags

	cmd := &cobra.Command{
		Use:     spec.tool,
		Aliases: []string{strings.ReplaceAll(spec.tool, "_", "-")},
		Short:   spec.short,
		GroupID: "tools",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := common.request(cmd.Flags())
			req.Options = commandOptions(cmd.Flags(), spec.flags)

			e, err := a.startEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeEngine(e)

			runs, err := e.orchestrator.RunTool(cmd.Context(), spec.tool, req)

			for _, run := range runs {
				printRun(cmd.OutOrStdout(), run)
			}

			return err
		},
	}

	common.bind(cmd.Flags())

	flags := cmd.Flags()

	for _, f := range spec.flags {
		switch f.kind {
		case intFlag:
			flags.Int(f.name, 0, f.usage)
		case stringFlag:
			flags.String(f.name, "", f.usage)
		case boolFlag:
			flags.Bool(f.name, false, f.usage)
		case listFlag:
			flags.StringSlice(f.name, nil, f.usage)
		}
	}

	return cmd
}

// commandOptions collects the tool flags set on the command line.
func commandOptions(flags *pflag.FlagSet, specs []toolFlag) models.Options {
	opts := models.Options{}

	for _, f := range specs {
		if !flags.Changed(f.name) {
			continue
		}

		key := strings.ReplaceAll(f.name, "-", "_")

		var (
			v   interface{}
			err error
		)

		switch f.kind {
		case intFlag:
			v, err = flags.GetInt(f.name)
		case stringFlag:
			v, err = flags.GetString(f.name)
		case boolFlag:
			v, err = flags.GetBool(f.name)
		case listFlag:
			v, err = flags.GetStringSlice(f.name)
		}

		if err == nil {
			opts[key] = v
		}
	}

	return opts
}

// runFlags are shared by every command that runs discoveries.
type runFlags struct {
	workers int
	timeout float64
}

func (r *runFlags) bind(flags *pflag.FlagSet) {
	flags.IntVar(&r.workers, "workers", 0, "Number of concurrent probes")
	flags.Float64Var(&r.timeout, "timeout", 0, "Probe timeout in seconds")
}

// request returns a run request carrying the flags that were set.
func (r *runFlags) request(flags *pflag.FlagSet) discovery.RunRequest {
	var req discovery.RunRequest

	if flags.Changed("workers") {
		req.Workers = r.workers
	}

	if flags.Changed("timeout") {
		req.Timeout = time.Duration(r.timeout * float64(time.Second))
	}

	return req
}
