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

package shell

import (
	"bufio"
	"fmt"

	"github.com/kballard/go-shellquote"
	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
)

// Prompt is printed before every line is read.
const Prompt = "ec2deploy> "

type command struct {
	log *logger.FunLogger
}

// NewCommand constructs the shell command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m command) build() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively",
		Description: `Read commands line by line and run them as if they were given on the
command line. Global flags given to the shell apply to every command.
The shell ends on exit, quit or end of input.`,
		Action: m.run,
	}
}

func (m command) run(c *cli.Context) error {
	if c.NArg() != 0 {
		return common.Usage(c, "")
	}

	globals := inherited(c)
	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(c.App.Writer, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.App.Writer)
			return scanner.Err()
		}

		args, err := shellquote.Split(scanner.Text())
		if err != nil {
			m.log.Error(fmt.Errorf("invalid input: %w", err))
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			return nil
		case c.Command.Name:
			m.log.Warning("Already in a shell")
			continue
		}

		argv := append([]string{c.App.Name}, globals...)
		argv = append(argv, args...)
		if err := c.App.RunContext(c.Context, argv); err != nil {
			m.log.Error(err)
		}
	}
}

// inherited returns the global flags the shell was started with.
func inherited(c *cli.Context) []string {
	var args []string
	for _, name := range []string{common.FlagConfig, common.FlagOutput, common.FlagRegion} {
		if c.IsSet(name) {
			args = append(args, "--"+name, c.String(name))
		}
	}
	if c.Bool(common.FlagDebug) {
		args = append(args, "--"+common.FlagDebug)
	}
	return args
}
