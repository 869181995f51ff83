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

package portfw

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/output"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

const argsUsage = "<instance-id> <address-id> <public-port> <private-port>"

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the portfw command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	return &cli.Command{
		Name:      "portfw",
		Usage:     "Forward a public port of a load balancer to an instance",
		ArgsUsage: argsUsage,
		Description: `Create a TCP port forward. Instance ids are listed by 'ec2deploy status',
address ids by 'ec2deploy list ip'. Without arguments the existing
forwards are listed.`,
		Action: m.run,
	}
}

func (m command) run(c *cli.Context) error {
	if c.NArg() != 0 && c.NArg() != 4 {
		return common.Usage(c, argsUsage)
	}

	var req provider.PortForwardRequest
	if c.NArg() == 4 {
		public, err := common.Port(c.Args().Get(2))
		if err != nil {
			return err
		}
		private, err := common.Port(c.Args().Get(3))
		if err != nil {
			return err
		}
		req = provider.PortForwardRequest{
			InstanceID:  c.Args().Get(0),
			AddressID:   c.Args().Get(1),
			PublicPort:  public,
			PrivatePort: private,
		}
	}

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		var rules []locator.PortForwardRule
		if err := common.Track(m.log, "Fetching port forwards", func() error {
			rules, err = env.Provider.PortForwards(context.Background())
			return err
		}); err != nil {
			return err
		}
		return env.Out.Print(output.PortForwardTable(rules))
	}

	var rule *locator.PortForwardRule
	if err := common.Track(m.log, fmt.Sprintf("Forwarding port %d", req.PublicPort), func() error {
		rule, err = env.Provider.CreatePortForward(context.Background(), req)
		return err
	}); err != nil {
		return common.OperatorError(err)
	}

	m.log.Check("added portforward for machine %s (%d -> %d)", req.InstanceID, req.PublicPort, req.PrivatePort)
	return env.Out.Print(output.PortForwardTable{*rule})
}
