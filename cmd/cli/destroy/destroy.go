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

package destroy

import (
	"context"
	"errors"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the destroy command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "Terminate an instance and clean up its puppet node",
		ArgsUsage: "<instance-id>",
		Description: `Terminate an instance. The configured puppetmaster can never be
destroyed. After termination the instance is removed from the pending
certificate file and the node clean command is run for its Name tag.`,
		Action: m.run,
	}
}

func (m command) run(c *cli.Context) error {
	if err := common.ExactArgs(c, 1, "<instance-id>"); err != nil {
		return err
	}
	id := c.Args().First()

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	cancel := m.log.Loading("Destroying %s", id)
	err = env.Provider.Destroy(context.Background(), id)
	switch {
	case err == nil:
		cancel(nil)
	case errors.Is(err, provider.ErrCleanupFailed):
		cancel(nil)
		m.log.Warning("%v", err)
	default:
		cancel(logger.ErrLoadingFailed)
		return common.OperatorError(err)
	}

	m.log.Check("Instance %s destroyed", id)
	return nil
}
