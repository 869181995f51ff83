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

// Package configmgmt drives the mcollective client used to trigger puppet
// runs on deployed instances.
package configmgmt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/vdt-tools/ec2deploy/internal/logger"
)

// ErrTimeout is returned when a command does not finish before its deadline.
var ErrTimeout = errors.New("command timed out")

// ExitError is returned when a command exits non-zero.
type ExitError struct {
	Command string
	Code    int
	Output  []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Runner runs a command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct {
	log     logger.Logger
	timeout time.Duration
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner returns a runner that kills commands after timeout. A zero
// timeout leaves only the caller's context as deadline.
func NewExecRunner(log logger.Logger, timeout time.Duration) *ExecRunner {
	return &ExecRunner{log: log, timeout: timeout}
}

// Run executes name with args and returns stdout and stderr interleaved.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmdStr := Render(name, args...)
	r.log.Debug("executing %s", cmdStr)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return out.Bytes(), fmt.Errorf("%w: %s after %s", ErrTimeout, cmdStr, r.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.log.Debug("%s exited with code %d", cmdStr, exitErr.ExitCode())
			return out.Bytes(), &ExitError{Command: cmdStr, Code: exitErr.ExitCode(), Output: out.Bytes()}
		}
		return out.Bytes(), fmt.Errorf("failed to execute %s: %w", cmdStr, err)
	}

	r.log.Trace("%s succeeded", cmdStr)
	return out.Bytes(), nil
}

// Render quotes a command line for display.
func Render(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
