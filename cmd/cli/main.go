/*
 * Copyright (c) 2023, NVIDIA CORPORATION.  All rights reserved.
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

package main

import (
	"os"

	"github.com/vdt-tools/ec2deploy/cmd/cli/address"
	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/cmd/cli/deploy"
	"github.com/vdt-tools/ec2deploy/cmd/cli/destroy"
	"github.com/vdt-tools/ec2deploy/cmd/cli/keypair"
	"github.com/vdt-tools/ec2deploy/cmd/cli/kick"
	"github.com/vdt-tools/ec2deploy/cmd/cli/list"
	oscmd "github.com/vdt-tools/ec2deploy/cmd/cli/os"
	"github.com/vdt-tools/ec2deploy/cmd/cli/portfw"
	"github.com/vdt-tools/ec2deploy/cmd/cli/power"
	"github.com/vdt-tools/ec2deploy/cmd/cli/shell"
	"github.com/vdt-tools/ec2deploy/cmd/cli/ssh"
	"github.com/vdt-tools/ec2deploy/cmd/cli/status"
	"github.com/vdt-tools/ec2deploy/internal/logger"

	cli "github.com/urfave/cli/v2"
)

const (
	// ProgramName is the canonical name of this program
	ProgramName = "ec2deploy"
)

func main() {
	log := logger.NewLogger()

	err := newApp(log).Run(os.Args)
	if err != nil {
		log.Error(err)
		log.Exit(1)
	}
}

func newApp(log *logger.FunLogger) *cli.App {
	// Create the top-level CLI
	c := cli.NewApp()
	c.Name = ProgramName
	c.Usage = "Deploy and operate puppet managed EC2 instances"
	c.Description = `
ec2deploy launches EC2 instances bootstrapped by cloud-init into puppet,
and operates them afterwards: power, key pairs, elastic IPs, port
forwards through network load balancers and mcollective runs.

The session is read from the file given by --config (or EC2DEPLOY_CONFIG).`
	c.Version = "0.1.0"
	c.EnableBashCompletion = true

	c.Flags = common.GlobalFlags()
	c.Before = common.Before(log)

	// Define the subcommands
	c.Commands = []*cli.Command{
		deploy.NewCommand(log),
		destroy.NewCommand(log),
		status.NewCommand(log),
		list.NewCommand(log),
		keypair.NewCommand(log),
		address.NewRequestCommand(log),
		address.NewReleaseCommand(log),
		portfw.NewCommand(log),
		ssh.NewCommand(log),
		kick.NewCommand(log),
		kick.NewMcoCommand(log),
		oscmd.NewCommand(log),
		shell.NewCommand(log),
	}
	c.Commands = append(c.Commands, power.NewCommands(log)...)

	// Custom help template
	c.CustomAppHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}

USAGE:
   {{.HelpName}} [global options] command [command options] [arguments...]

VERSION:
   {{.Version}}

DESCRIPTION:
   {{.Description}}

COMMANDS:
{{range .Commands}}{{if not .HideHelp}}   {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}

GLOBAL OPTIONS:
   {{range .Flags}}{{.}}
   {{end}}

EXAMPLES:
   # Show the instances of the region
   {{.Name}} status detailed

   # Deploy a puppet agent with the lvs role
   {{.Name}} deploy ubuntu-22.04 ops lb1 role=lvs

   # Preview the user data of a base install
   {{.Name}} deploy --dry-run ami-0abc ops puppetmaster role=puppetmaster base

   # Make an instance reachable through ssh on port 2203
   {{.Name}} ssh i-0abc 2203

   # Trigger a puppet run on every lvs node
   {{.Name}} kick role=lvs

   # Run commands interactively
   {{.Name}} shell

For more information about a command, run:
   {{.Name}} help <command>
`
	return c
}
