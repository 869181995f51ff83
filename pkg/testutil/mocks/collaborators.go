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

package mocks

import (
	"context"
	"sync"

	"github.com/vdt-tools/ec2deploy/pkg/certificate"
	"github.com/vdt-tools/ec2deploy/pkg/configmgmt"
)

// Runner records commands instead of executing them.
type Runner struct {
	mu       sync.Mutex
	Commands [][]string

	Output []byte
	Err    error
}

var _ configmgmt.Runner = (*Runner)(nil)

func (r *Runner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, append([]string{name}, args...))
	return r.Output, r.Err
}

// Registry is an in-memory certificate.Registry.
type Registry struct {
	mu      sync.Mutex
	Added   []string
	Removed []string

	AddErr    error
	RemoveErr error
}

var _ certificate.Registry = (*Registry)(nil)

func (r *Registry) Add(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AddErr != nil {
		return r.AddErr
	}
	r.Added = append(r.Added, id)
	return nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	r.Removed = append(r.Removed, id)
	return nil
}
