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

package keypair

import (
	"context"
	"errors"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/output"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the keypair command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	return &cli.Command{
		Name:  "keypair",
		Usage: "Manage EC2 key pairs",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a key pair, optionally saving it to a folder",
				ArgsUsage: "<name> [folder]",
				Description: `Create a key pair. When a folder is given the private key is saved as
<folder>/<name> and the OpenSSH public key as <folder>/<name>.pub.`,
				Action: m.create,
			},
			{
				Name:      "delete",
				Usage:     "Delete a key pair",
				ArgsUsage: "<name>",
				Action:    m.delete,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List key pairs",
				Action:  m.list,
			},
		},
	}
}

func (m command) create(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return common.Usage(c, "<name> [folder]")
	}
	name, dir := c.Args().Get(0), c.Args().Get(1)

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}

	var files *provider.KeyPairFiles
	err = common.Track(m.log, "Creating key pair "+name, func() error {
		files, err = env.Provider.CreateKeyPair(context.Background(), name, dir)
		return err
	})
	if err != nil && !errors.Is(err, provider.ErrKeySave) {
		return err
	}
	if err != nil {
		m.log.Warning("Key pair %s was created but not saved: %v", name, err)
	}

	table := (&output.KeyValueTable{}).
		Add("name", files.Name).
		Add("id", files.ID).
		Add("fingerprint", files.Fingerprint)
	if files.PrivateKeyPath != "" {
		table.Add("private key", files.PrivateKeyPath).Add("public key", files.PublicKeyPath)
	}
	return env.Out.Print(table)
}

func (m command) delete(c *cli.Context) error {
	if err := common.ExactArgs(c, 1, "<name>"); err != nil {
		return err
	}
	name := c.Args().First()

	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}
	err = common.Track(m.log, "Deleting key pair "+name, func() error {
		return env.Provider.DeleteKeyPair(context.Background(), name)
	})
	return common.OperatorError(err)
}

func (m command) list(c *cli.Context) error {
	env, err := common.Setup(c, m.log)
	if err != nil {
		return err
	}
	var keys []locator.KeyPair
	if err := common.Track(m.log, "Fetching key pairs", func() error {
		keys, err = env.Provider.KeyPairs(context.Background())
		return err
	}); err != nil {
		return err
	}
	return env.Out.Print(output.KeyPairTable(keys))
}
