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

package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/hashicorp/go-multierror"

	"github.com/vdt-tools/ec2deploy/pkg/configmgmt"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

// Destroy terminates an instance. The control node is refused before any
// AWS call is made. Cleanup failures after a successful termination are
// returned wrapped in provider.ErrCleanupFailed.
func (p *Provider) Destroy(ctx context.Context, id string) error {
	if err := p.guard.CheckDestructive(id); err != nil {
		return err
	}

	inst, err := p.findInstance(ctx, id)
	if err != nil {
		return err
	}

	if _, err := call(ctx, p, func(ctx context.Context) (*ec2.TerminateInstancesOutput, error) {
		return p.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{id}})
	}); err != nil {
		if hasErrorCode(err, "InvalidInstanceID.NotFound") {
			return &locator.NotFoundError{Kind: "machine", ID: id}
		}
		return fmt.Errorf("error terminating instance %s: %w", id, err)
	}

	if err := p.cleanup(ctx, inst); err != nil {
		return fmt.Errorf("%w: %w", provider.ErrCleanupFailed, err)
	}
	return nil
}

func (p *Provider) cleanup(ctx context.Context, inst locator.Instance) error {
	var result *multierror.Error

	if p.certs != nil {
		if err := p.certs.Remove(inst.ID); err != nil {
			result = multierror.Append(result, err)
		}
	}

	command := p.spec.ConfigManagement.NodeCleanCommand
	switch {
	case len(command) == 0:
	case inst.Name == locator.DefaultName:
		p.log.Debug("Instance %s has no name, skipping node clean", inst.ID)
	default:
		args := append(append([]string{}, command[1:]...), inst.Name)
		p.log.Debug("Cleaning node %s: %s", inst.Name, configmgmt.Render(command[0], args...))
		if out, err := p.runner.Run(ctx, command[0], args...); err != nil {
			p.log.Debug("node clean output: %s", out)
			result = multierror.Append(result, fmt.Errorf("node clean for %s: %w", inst.Name, err))
		}
	}

	return result.ErrorOrNil()
}
