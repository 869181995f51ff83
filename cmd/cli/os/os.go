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

// Package os provides the commands listing the operating systems deploy
// accepts by name.
package os

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/ami"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/output"
)

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the os command with the specified logger.
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := &command{
		log: log,
	}
	return c.build()
}

func (c *command) build() *cli.Command {
	return &cli.Command{
		Name:  "os",
		Usage: "Show the operating systems deploy accepts by name",
		Description: `Instead of an AMI id, deploy accepts an operating system alias and
resolves it in the session region:

  ec2deploy deploy ubuntu-22.04 ops role=lvs

The image architecture is taken from spec.instance.architecture.`,
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the operating system aliases",
				Action:  c.runList,
			},
			{
				Name:      "describe",
				Usage:     "Show details for an operating system alias",
				ArgsUsage: "<os-id>",
				Action:    c.runDescribe,
			},
			{
				Name:      "ami",
				Usage:     "Resolve the AMI id of an image reference in the session region",
				ArgsUsage: "<os-id|ami-id|ssm-path>",
				Action:    c.runAMI,
			},
		},
	}
}

// osTable lists the aliases of the registry.
type osTable []ami.Alias

func (t osTable) Headers() []string { return []string{"ID", "NAME", "ARCHITECTURES", "SSM"} }

func (t osTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, a := range t {
		ssm := "no"
		if a.SSMPath != "" {
			ssm = "yes"
		}
		rows = append(rows, []string{a.ID, a.Name, strings.Join(a.Architectures, ", "), ssm})
	}
	return rows
}

func (c *command) formatter(ctx *cli.Context) (*output.Formatter, error) {
	out, err := output.NewFormatter(ctx.String(common.FlagOutput))
	if err != nil {
		return nil, err
	}
	out.SetWriter(ctx.App.Writer)
	return out, nil
}

func (c *command) runList(ctx *cli.Context) error {
	out, err := c.formatter(ctx)
	if err != nil {
		return err
	}
	return out.Print(osTable(ami.All()))
}

func (c *command) runDescribe(ctx *cli.Context) error {
	if err := common.ExactArgs(ctx, 1, "<os-id>"); err != nil {
		return err
	}

	osID := ctx.Args().First()
	img, ok := ami.Get(osID)
	if !ok {
		return fmt.Errorf("unknown OS: %s (run 'ec2deploy os list' for available options)", osID)
	}

	out, err := c.formatter(ctx)
	if err != nil {
		return err
	}

	t := &output.KeyValueTable{}
	t.Add("id", img.ID).
		Add("name", img.Name).
		Add("architectures", strings.Join(img.Architectures, ", ")).
		Add("owner", img.OwnerID).
		Add("name pattern", img.NamePattern)
	if img.SSMPath != "" {
		t.Add("ssm path", img.SSMPath)
	}
	return out.Print(t)
}

func (c *command) runAMI(ctx *cli.Context) error {
	if err := common.ExactArgs(ctx, 1, "<os-id|ami-id|ssm-path>"); err != nil {
		return err
	}

	env, err := common.Setup(ctx, c.log)
	if err != nil {
		return err
	}

	imageID, err := env.Provider.ResolveImage(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, imageID)
	return err
}
