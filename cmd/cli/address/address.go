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

// Package address provides the request and release commands for elastic
// IPs.
package address

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

// ElasticIP is the only address type that can be requested.
const ElasticIP = "eip"

type command struct {
	log *logger.FunLogger
}

// NewRequestCommand constructs the request command.
func NewRequestCommand(log *logger.FunLogger) *cli.Command {
	m := command{log: log}
	return &cli.Command{
		Name:      "request",
		Usage:     "Request a public elastic IP address",
		ArgsUsage: ElasticIP,
		Action:    m.request,
	}
}

// NewReleaseCommand constructs the release command.
func NewReleaseCommand(log *logger.FunLogger) *cli.Command {
	m := command{log: log}
	return &cli.Command{
		Name:      "release",
		Usage:     "Release an elastic IP address",
		ArgsUsage: ElasticIP + " <public-ip>",
		Action:    m.release,
	}
}

func checkType(c *cli.Context, usage string) error {
	if t := c.Args().First(); t != ElasticIP {
		return fmt.Errorf("%w: %s %q (%s)", provider.ErrNotImplemented, c.Command.Name, t, usage)
	}
	return nil
}

func (m command) request(c *cli.Context) error {
	if err := common.ExactArgs(c, 1, ElasticIP); err != nil {
		return err
	}
	if err := checkType(c, ElasticIP); err != nil {
		return err
	}

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}
	var addr *locator.ElasticAddress
	if err := common.Track(m.log, "Allocating elastic IP", func() error {
		addr, err = env.Provider.RequestAddress(context.Background())
		return err
	}); err != nil {
		return err
	}

	m.log.Check("created eip address %s", addr.PublicIP)
	return env.Out.Print(output.AddressTable{*addr})
}

func (m command) release(c *cli.Context) error {
	usage := ElasticIP + " <public-ip>"
	if err := common.ExactArgs(c, 2, usage); err != nil {
		return err
	}
	if err := checkType(c, usage); err != nil {
		return err
	}
	ip := c.Args().Get(1)

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}
	err = common.Track(m.log, fmt.Sprintf("Releasing ip address %s", ip), func() error {
		return env.Provider.ReleaseAddress(context.Background(), ip)
	})
	return common.OperatorError(err)
}
