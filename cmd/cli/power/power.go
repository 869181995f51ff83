/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
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

// Package power provides the start, stop and reboot commands.
package power

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

type action struct {
	name  string
	usage string
	verb  string
	call  func(p provider.Provider, ctx context.Context, id string) error
}

var actions = []action{
	{"start", "Start a stopped instance", "Starting", provider.Provider.Start},
	{"stop", "Stop a running instance", "Stopping", provider.Provider.Stop},
	{"reboot", "Reboot a running instance", "Rebooting", provider.Provider.Reboot},
}

// NewCommands constructs the start, stop and reboot commands.
func NewCommands(log *logger.FunLogger) []*cli.Command {
	cmds := make([]*cli.Command, 0, len(actions))
	for _, a := range actions {
		cmds = append(cmds, build(log, a))
	}
	return cmds
}

func build(log *logger.FunLogger, a action) *cli.Command {
	return &cli.Command{
		Name:      a.name,
		Usage:     a.usage,
		ArgsUsage: "<instance-id>",
		Action: func(c *cli.Context) error {
			if err := common.ExactArgs(c, 1, "<instance-id>"); err != nil {
				return err
			}
			id := c.Args().First()

			env, err := common.Setup(c, log)
			if err != nil {
				return err
			}
			err = common.Track(log, fmt.Sprintf("%s instance %s", a.verb, id), func() error {
				return a.call(env.Provider, context.Background(), id)
			})
			return common.OperatorError(err)
		},
	}
}
