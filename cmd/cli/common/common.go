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

// Package common holds what every ec2deploy command shares: global flags,
// session setup and operator facing error messages.
package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
	"github.com/vdt-tools/ec2deploy/internal/config"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/output"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/provider/aws"
)

// Global flag names
const (
	FlagConfig = "config"
	FlagDebug  = "debug"
	FlagOutput = "output"
	FlagRegion = "region"
)

// Operator messages
const (
	MsgControlNode = "You are not allowed to destroy the puppetmaster"
	MsgNoUserData  = "Specify the machine userdata, (at least its role)"
)

var (
	// LoadSession reads the session configuration.
	LoadSession = config.Load
	// NewProvider binds a provider to the session.
	NewProvider = func(log *logger.FunLogger, session *v1alpha1.Session) (provider.Provider, error) {
		return aws.New(log, session)
	}
)

// GlobalFlags returns the flags accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to the session config file",
			EnvVars: []string{"EC2DEPLOY_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    FlagDebug,
			Aliases: []string{"d"},
			Usage:   "Enable debug-level logging",
			EnvVars: []string{"DEBUG"},
		},
		&cli.StringFlag{
			Name:    FlagOutput,
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.StringFlag{
			Name:  FlagRegion,
			Usage: "Override the session region",
		},
	}
}

// Before applies the global flags to the logger.
func Before(log *logger.FunLogger) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.Bool(FlagDebug) {
			log.SetVerbosity(logger.VerbosityVerbose)
		}
		return nil
	}
}

// Env is everything a command needs to run.
type Env struct {
	Log      *logger.FunLogger
	Session  *v1alpha1.Session
	Provider provider.Provider
	Out      *output.Formatter
}

// Setup loads the session, binds the provider and prepares the formatter
// from the global flags.
func Setup(c *cli.Context, log *logger.FunLogger) (*Env, error) {
	out, err := output.NewFormatter(c.String(FlagOutput))
	if err != nil {
		return nil, err
	}
	out.SetWriter(c.App.Writer)

	session, err := LoadSession(c.String(FlagConfig))
	if err != nil {
		return nil, err
	}
	if region := c.String(FlagRegion); region != "" {
		session.Spec.Region = region
	}

	p, err := NewProvider(log, session)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	return &Env{Log: log, Session: session, Provider: p, Out: out}, nil
}

// OperatorError turns the errors an operator can act on into their
// message. Other errors are returned unchanged.
func OperatorError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *locator.NotFoundError
	switch {
	case errors.Is(err, locator.ErrPermissionDenied):
		return errors.New(MsgControlNode)
	case errors.As(err, &notFound):
		return errors.New(notFound.Error())
	case errors.Is(err, provider.ErrNoUserData):
		return errors.New(MsgNoUserData)
	}
	return err
}

// Usage returns the error reported for malformed arguments.
func Usage(c *cli.Context, usage string) error {
	return fmt.Errorf("usage: %s", strings.TrimSpace(CommandPath(c)+" "+usage))
}

// CommandPath returns the program name followed by the names of the
// running command and its parents, e.g. "ec2deploy keypair create".
func CommandPath(c *cli.Context) string {
	var names []string
	for _, ctx := range c.Lineage() {
		// the root context carries the app itself
		if ctx.Command == nil || ctx.Command.Name == "" || ctx.Command.Name == c.App.Name {
			continue
		}
		names = append([]string{ctx.Command.Name}, names...)
	}
	return strings.Join(append([]string{c.App.Name}, names...), " ")
}

// ExactArgs fails unless the command got n arguments.
func ExactArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return Usage(c, usage)
	}
	return nil
}

// Port parses a TCP port argument.
func Port(arg string) (int32, error) {
	port, err := strconv.ParseInt(arg, 10, 32)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", arg)
	}
	return int32(port), nil
}

// Track runs fn while the logger shows message as in progress.
func Track(log *logger.FunLogger, message string, fn func() error) error {
	cancel := log.Loading("%s", message)
	if err := fn(); err != nil {
		cancel(logger.ErrLoadingFailed)
		return err
	}
	cancel(nil)
	return nil
}
