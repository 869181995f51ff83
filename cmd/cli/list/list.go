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

package list

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/output"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/provider/aws"
)

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the list command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	kinds := strings.Join(aws.Kinds(), "|")
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List resources of the region",
		ArgsUsage: "<" + kinds + ">",
		Action: func(c *cli.Context) error {
			if err := common.ExactArgs(c, 1, "<"+kinds+">"); err != nil {
				return err
			}
			return m.run(c, c.Args().First())
		},
	}
}

func (m command) run(c *cli.Context, kind string) error {
	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	var listing *provider.Listing
	if err := common.Track(m.log, fmt.Sprintf("Listing %s", kind), func() error {
		listing, err = env.Provider.List(context.Background(), kind)
		return err
	}); err != nil {
		return err
	}

	return env.Out.Print(output.NewTable(listing.Columns, listing.Rows))
}
