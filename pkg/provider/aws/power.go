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
)

// Start starts a stopped instance.
func (p *Provider) Start(ctx context.Context, id string) error {
	if _, err := p.findInstance(ctx, id); err != nil {
		return err
	}
	_, err := call(ctx, p, func(ctx context.Context) (*ec2.StartInstancesOutput, error) {
		return p.ec2.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{id}})
	})
	if err != nil {
		return fmt.Errorf("error starting instance %s: %w", id, err)
	}
	return nil
}

// Stop stops a running instance.
func (p *Provider) Stop(ctx context.Context, id string) error {
	if _, err := p.findInstance(ctx, id); err != nil {
		return err
	}
	_, err := call(ctx, p, func(ctx context.Context) (*ec2.StopInstancesOutput, error) {
		return p.ec2.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{id}})
	})
	if err != nil {
		return fmt.Errorf("error stopping instance %s: %w", id, err)
	}
	return nil
}

// Reboot reboots a running instance.
func (p *Provider) Reboot(ctx context.Context, id string) error {
	if _, err := p.findInstance(ctx, id); err != nil {
		return err
	}
	_, err := call(ctx, p, func(ctx context.Context) (*ec2.RebootInstancesOutput, error) {
		return p.ec2.RebootInstances(ctx, &ec2.RebootInstancesInput{InstanceIds: []string{id}})
	})
	if err != nil {
		return fmt.Errorf("error rebooting instance %s: %w", id, err)
	}
	return nil
}
