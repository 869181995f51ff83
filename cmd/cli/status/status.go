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

package status

import (
	"context"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/output"
)

type command struct {
	log      *logger.FunLogger
	detailed bool
}

// NewCommand constructs the status command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := &command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the instances of the region",
		ArgsUsage: "[detailed]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "detailed",
				Usage:       "Show type, role, addresses and age",
				Destination: &m.detailed,
			},
		},
		Action: m.run,
	}
}

func (m *command) run(c *cli.Context) error {
	detailed := m.detailed || c.Args().First() == "detailed"

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	var instances []locator.Instance
	if err := common.Track(m.log, "Fetching instances", func() error {
		instances, err = env.Provider.Instances(context.Background())
		return err
	}); err != nil {
		return err
	}

	return env.Out.Print(&output.InstanceTable{Instances: instances, Detailed: detailed})
}
