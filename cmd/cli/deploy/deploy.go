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

package deploy

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/output"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/userdata"
)

const flagSecurityGroup = "security-group"

type options struct {
	base         bool
	dryRun       bool
	instanceType string
	subnetID     string
}

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the deploy command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	opts := options{}

	return &cli.Command{
		Name:      "deploy",
		Usage:     "Launch an instance with puppet user data",
		ArgsUsage: "<image> <key> <displayname> key=value [key=value...]",
		Description: `Launch one instance and tag it with its display name.

The image is an AMI id, an SSM parameter path or an OS alias (see
'ec2deploy os list'). Every key=value argument becomes a line of the user
data; at least the puppet role is required:

  ec2deploy deploy ami-0abc ops loadbalancer1 role=lvs environment=test

Use --base for machines that must not run the puppet agent, such as the
puppetmaster itself:

  ec2deploy deploy --base ubuntu-22.04 ops puppetmaster role=puppetmaster
  ec2deploy deploy ubuntu-22.04 ops puppetmaster role=puppetmaster base`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "base",
				Usage:       "Use the base template and skip certificate registration",
				Destination: &opts.base,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Print the user data without launching anything",
				Destination: &opts.dryRun,
			},
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Instance type (default: the session instance type)",
				Destination: &opts.instanceType,
			},
			&cli.StringFlag{
				Name:        "subnet",
				Usage:       "Subnet id (default: the session subnet)",
				Destination: &opts.subnetID,
			},
			&cli.StringSliceFlag{
				Name:  flagSecurityGroup,
				Usage: "Security group id, repeatable",
			},
		},
		Action: func(c *cli.Context) error {
			return m.run(c, &opts)
		},
	}
}

func (m command) run(c *cli.Context, opts *options) error {
	if c.NArg() < 3 {
		return common.Usage(c, c.Command.ArgsUsage)
	}
	args := c.Args().Slice()
	base := opts.base
	var pairs []string
	for _, arg := range args[3:] {
		// a bare "base" word selects a base install
		if arg == "base" {
			base = true
			continue
		}
		pairs = append(pairs, arg)
	}
	overrides, err := userdata.ParseOverrides(pairs)
	if err != nil {
		return err
	}

	req := provider.DeployRequest{
		Image:            args[0],
		KeyName:          args[1],
		DisplayName:      args[2],
		Base:             base,
		Overrides:        overrides,
		InstanceType:     opts.instanceType,
		SubnetID:         opts.subnetID,
		SecurityGroupIDs: c.StringSlice(flagSecurityGroup),
	}

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	if opts.dryRun {
		payload, err := env.Provider.UserData(req)
		if err != nil {
			return common.OperatorError(err)
		}
		m.log.Info("Dry run: %s would be launched from %s with %s user data:",
			req.DisplayName, req.Image, env.Session.Spec.CloudInit.Encoding)
		_, err = fmt.Fprintln(env.Out.Writer(), payload)
		return err
	}

	var result *provider.DeployResult
	if err := common.Track(m.log, fmt.Sprintf("Deploying %s", req.DisplayName), func() error {
		result, err = env.Provider.Deploy(context.Background(), req)
		return err
	}); err != nil {
		return common.OperatorError(err)
	}

	m.log.Check("%s started, machine id %s", req.DisplayName, result.Instance.ID)
	role, _ := userdata.Lookup(req.Overrides, "role")
	table := (&output.KeyValueTable{}).
		Add("id", result.Instance.ID).
		Add("name", result.Instance.Name).
		Add("image", result.ImageID).
		Add("role", role).
		Add("base", fmt.Sprint(req.Base))
	return env.Out.Print(table)
}
