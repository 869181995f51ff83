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

// Package clitest runs ec2deploy commands against a mock provider.
package clitest

import (
	"bytes"
	"context"
	"strings"
	"sync"

	cli "github.com/urfave/cli/v2"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
	"github.com/vdt-tools/ec2deploy/cmd/cli/common"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/testutil"
	"github.com/vdt-tools/ec2deploy/pkg/testutil/mocks"
)

// Harness captures everything a command prints.
type Harness struct {
	Log      *logger.FunLogger
	Logs     *bytes.Buffer
	Out      *bytes.Buffer
	In       *strings.Reader
	Provider *mocks.Provider
	Session  *v1alpha1.Session

	// ConfigPath receives the --config value of the last run.
	ConfigPath string
	// ExitCode is set when the logger exits.
	ExitCode int

	restore func()
}

// New installs a mock provider and ValidSession in place of the real
// session loader. Close undoes it.
func New() *Harness {
	h := &Harness{
		Logs:     &bytes.Buffer{},
		Out:      &bytes.Buffer{},
		In:       strings.NewReader(""),
		Provider: &mocks.Provider{},
		Session:  testutil.ValidSession(),
		ExitCode: -1,
	}
	h.Log = &logger.FunLogger{
		Out:      h.Logs,
		Wg:       &sync.WaitGroup{},
		IsCI:     true,
		ExitFunc: func(code int) { h.ExitCode = code },
	}
	h.Log.SetVerbosity(logger.VerbosityNormal)

	load, newProvider := common.LoadSession, common.NewProvider
	common.LoadSession = func(path string) (*v1alpha1.Session, error) {
		h.ConfigPath = path
		return h.Session, nil
	}
	common.NewProvider = func(*logger.FunLogger, *v1alpha1.Session) (provider.Provider, error) {
		return h.Provider, nil
	}
	h.restore = func() {
		common.LoadSession, common.NewProvider = load, newProvider
	}
	return h
}

// Close restores the package level hooks.
func (h *Harness) Close() {
	h.restore()
}

// App returns an app carrying the global flags and cmds.
func (h *Harness) App(cmds ...*cli.Command) *cli.App {
	app := cli.NewApp()
	app.Name = "ec2deploy"
	app.Flags = common.GlobalFlags()
	app.Before = common.Before(h.Log)
	app.Commands = cmds
	app.Reader = h.In
	app.Writer = h.Out
	app.ErrWriter = h.Logs
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// Run runs args, without the program name, through an app with cmds.
func (h *Harness) Run(cmds []*cli.Command, args ...string) error {
	return h.App(cmds...).RunContext(context.Background(), append([]string{"ec2deploy"}, args...))
}
