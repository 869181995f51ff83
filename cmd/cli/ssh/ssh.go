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

package ssh

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

const argsUsage = "<instance-id> <public-port>"

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the ssh command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	return &cli.Command{
		Name:      "ssh",
		Usage:     "Make an instance reachable through ssh on every public address",
		ArgsUsage: argsUsage,
		Description: `Forward the public port to port 22 of the instance on every public
address that does not forward it yet. Afterwards:

  ssh <address> -p <public-port>`,
		Action: m.run,
	}
}

func (m command) run(c *cli.Context) error {
	if err := common.ExactArgs(c, 2, argsUsage); err != nil {
		return err
	}
	id := c.Args().Get(0)
	port, err := common.Port(c.Args().Get(1))
	if err != nil {
		return err
	}

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	var results []provider.SSHResult
	err = common.Track(m.log, fmt.Sprintf("Enabling ssh for %s", id), func() error {
		results, err = env.Provider.EnableSSH(context.Background(), id, port)
		return err
	})
	// report what was done before a failure too
	for _, r := range results {
		if r.Existing {
			m.log.Info("machine %s already has a ssh portforward with ip %s to port %d", id, r.Address.Address, port)
			continue
		}
		m.log.Check("machine %s is now reachable (via %s:%d)", id, r.Address.Address, port)
	}
	if err == nil && len(results) == 0 {
		m.log.Warning("No public addresses are configured")
	}
	return common.OperatorError(err)
}
