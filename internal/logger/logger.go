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

package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

// ErrLoadingFailed is passed to a Loading cancel function to mark the
// operation as failed.
var ErrLoadingFailed = errors.New("loading failed")

// Verbosity represents the logging verbosity level.
type Verbosity int

const (
	// VerbosityQuiet suppresses everything except warnings and errors.
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal is the default verbosity level.
	VerbosityNormal
	// VerbosityVerbose enables debug output.
	VerbosityVerbose
	// VerbosityDebug enables trace output, including AWS request details.
	VerbosityDebug
)

const (
	reset      = "\033[0m"
	green      = "\033[32m"
	yellowText = "\033[33m"
	redText    = "\033[31m"

	checkmark    = "✔"
	redXEmoji    = "❌"
	warningSign  = "⚠"
	loadingEmoji = "\U0001f300"

	spinnerInterval = 330 * time.Millisecond
)

// Logger is the logging surface shared by commands and providers.
type Logger interface {
	Info(format string, a ...any)
	Check(format string, a ...any)
	Warning(format string, a ...any)
	Error(err error)
	Loading(format string, a ...any) context.CancelCauseFunc
	Debug(format string, a ...any)
	Trace(format string, a ...any)
	SetVerbosity(v Verbosity)
}

// FunLogger implements Logger with coloured emoji prefixes and a spinner
// for long running AWS calls.
type FunLogger struct {
	// Out receives every message. Defaults to os.Stderr.
	Out io.Writer
	// ExitFunc defaults to os.Exit.
	ExitFunc func(int)
	// Wg tracks running spinners so Exit can wait for them.
	Wg *sync.WaitGroup
	// IsCI disables the spinner animation.
	IsCI bool

	verbosity atomic.Int32

	mu            sync.Mutex
	activeCancels []context.CancelCauseFunc
	exited        bool
}

var _ Logger = (*FunLogger)(nil)

// NewLogger creates a FunLogger writing to stderr at normal verbosity.
func NewLogger() *FunLogger {
	l := &FunLogger{
		Out:      os.Stderr,
		Wg:       &sync.WaitGroup{},
		ExitFunc: os.Exit,
	}
	l.verbosity.Store(int32(VerbosityNormal))
	return l
}

// SetVerbosity sets the verbosity level for the logger.
func (l *FunLogger) SetVerbosity(v Verbosity) {
	l.verbosity.Store(int32(v)) //nolint:gosec // Verbosity is an iota (0-3)
}

// Verbosity returns the current verbosity level.
func (l *FunLogger) Verbosity() Verbosity {
	return Verbosity(l.verbosity.Load())
}

// Info prints a plain message at normal verbosity.
func (l *FunLogger) Info(format string, a ...any) {
	if l.Verbosity() < VerbosityNormal {
		return
	}
	l.printf("", format, a...)
}

// Check prints a success message at normal verbosity.
func (l *FunLogger) Check(format string, a ...any) {
	if l.Verbosity() < VerbosityNormal {
		return
	}
	l.printMessage(green, checkmark, fmt.Sprintf(format, a...))
}

// Warning prints regardless of verbosity.
func (l *FunLogger) Warning(format string, a ...any) {
	l.printMessage(yellowText, warningSign, fmt.Sprintf(format, a...))
}

// Error prints regardless of verbosity.
func (l *FunLogger) Error(err error) {
	if err == nil {
		return
	}
	l.printMessage(redText, redXEmoji, err.Error())
}

// Debug prints at VerbosityVerbose and above.
func (l *FunLogger) Debug(format string, a ...any) {
	if l.Verbosity() < VerbosityVerbose {
		return
	}
	l.printf("[DEBUG] ", format, a...)
}

// Trace prints at VerbosityDebug.
func (l *FunLogger) Trace(format string, a ...any) {
	if l.Verbosity() < VerbosityDebug {
		return
	}
	l.printf("[TRACE] ", format, a...)
}

func (l *FunLogger) printf(prefix, format string, a ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(l.Out, prefix+format, a...) // nolint: errcheck
}

func (l *FunLogger) printMessage(color, emoji, message string) {
	message = strings.TrimSuffix(message, "\n")
	if l.isInteractiveTerminal() {
		fmt.Fprintf(l.Out, "%s%s%s\t%s\n", color, emoji, reset, message) // nolint: errcheck
		return
	}
	fmt.Fprintf(l.Out, "%s\t%s\n", emoji, message) // nolint: errcheck
}

// Loading shows a spinner until the returned function is called:
// cancel(nil) marks success, cancel(ErrLoadingFailed) marks failure.
func (l *FunLogger) Loading(format string, a ...any) context.CancelCauseFunc {
	ctx, cancel := context.WithCancelCause(context.Background())

	l.mu.Lock()
	if l.exited || l.Verbosity() < VerbosityNormal {
		l.mu.Unlock()
		cancel(nil)
		return cancel
	}
	l.Wg.Add(1)
	l.activeCancels = append(l.activeCancels, cancel)
	l.mu.Unlock()

	go l.runLoading(ctx, strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
	return func(cause error) {
		cancel(cause)
		l.Wg.Wait()
	}
}

func (l *FunLogger) runLoading(ctx context.Context, message string) {
	defer l.Wg.Done()

	finish := func() {
		if errors.Is(context.Cause(ctx), ErrLoadingFailed) {
			l.printMessage(redText, redXEmoji, message)
		} else {
			l.printMessage(green, checkmark, message)
		}
	}

	if !l.isInteractiveTerminal() {
		l.printMessage(yellowText, loadingEmoji, message)
		<-ctx.Done()
		finish()
		return
	}

	spinners := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(spinners) {
		select {
		case <-ctx.Done():
			fmt.Fprint(l.Out, "\r\033[2K") // nolint: errcheck
			finish()
			return
		case <-ticker.C:
			fmt.Fprintf(l.Out, "\r%s\t%s", spinners[i], message) // nolint: errcheck
		}
	}
}

func (l *FunLogger) isInteractiveTerminal() bool {
	if l.IsCI || os.Getenv("CI") == "true" {
		return false
	}
	f, ok := l.Out.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

// Exit stops every spinner and terminates the process through ExitFunc.
func (l *FunLogger) Exit(code int) {
	l.mu.Lock()
	l.exited = true
	for _, cancel := range l.activeCancels {
		cancel(nil)
	}
	l.activeCancels = nil
	l.mu.Unlock()
	l.Wg.Wait()

	l.ExitFunc(code)
}
