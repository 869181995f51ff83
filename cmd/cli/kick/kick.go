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

// Package kick provides the commands that drive mcollective.
package kick

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/configmgmt"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

const rolePrefix = "role="

type command struct {
	log  *logger.FunLogger
	role string
}

// NewCommand constructs the kick command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	return &cli.Command{
		Name:      "kick",
		Usage:     "Trigger a puppet run on an instance or on every node of a role",
		ArgsUsage: "<instance-id> | role=<role>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "role",
				Aliases:     []string{"r"},
				Usage:       "Kick every node with this role",
				Destination: &m.role,
			},
		},
		Action: m.run,
	}
}

func (m *command) run(c *cli.Context) error {
	req := provider.KickRequest{Role: m.role}
	switch {
	case req.Role != "" && c.NArg() == 0:
	case req.Role == "" && c.NArg() == 1:
		arg := c.Args().First()
		if role, ok := strings.CutPrefix(arg, rolePrefix); ok {
			req.Role = role
		} else {
			req.InstanceID = arg
		}
	default:
		return common.Usage(c, c.Command.ArgsUsage)
	}

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	target := req.InstanceID
	if req.Role != "" {
		target = rolePrefix + req.Role
	}
	m.log.Info("Kicking %s", target)
	out, err := env.Provider.Kick(context.Background(), req)
	return report(c, out, err)
}

// NewMcoCommand constructs the mco passthrough command.
func NewMcoCommand(log *logger.FunLogger) *cli.Command {
	return &cli.Command{
		Name:            "mco",
		Usage:           "Run the mcollective client with the given arguments",
		ArgsUsage:       "<args...>",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return common.Usage(c, c.Command.ArgsUsage)
			}
			env, err := common.Setup(c, log)
			if err != nil {
				return err
			}
			out, err := env.Provider.Mco(context.Background(), c.Args().Slice()...)
			return report(c, out, err)
		},
	}
}

// report prints the command output, including the output of a failed run.
func report(c *cli.Context, out []byte, err error) error {
	if len(out) > 0 {
		if _, werr := c.App.Writer.Write(out); werr != nil {
			return fmt.Errorf("error writing output: %w", werr)
		}
	}
	var exitErr *configmgmt.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s (exit code %d)", exitErr.Command, exitErr.Code)
	}
	return common.OperatorError(err)
}
