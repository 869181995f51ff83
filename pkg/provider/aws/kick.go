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

	"github.com/vdt-tools/ec2deploy/pkg/configmgmt"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

// Kick triggers a single puppet run on the nodes of a role, or on one
// instance matched by its Name tag.
func (p *Provider) Kick(ctx context.Context, req provider.KickRequest) ([]byte, error) {
	var hostname string
	if req.Role == "" {
		if req.InstanceID == "" {
			return nil, fmt.Errorf("kick requires an instance id or a role")
		}
		inst, err := p.findInstance(ctx, req.InstanceID)
		if err != nil {
			return nil, err
		}
		if inst.Name == locator.DefaultName {
			return nil, fmt.Errorf("instance %s has no Name tag to match a puppet node", inst.ID)
		}
		hostname = inst.Name
	}

	args, err := configmgmt.KickArgs(req.Role, hostname)
	if err != nil {
		return nil, err
	}
	return p.Mco(ctx, args...)
}

// Mco runs the mcollective client with args.
func (p *Provider) Mco(ctx context.Context, args ...string) ([]byte, error) {
	binary := p.spec.ConfigManagement.Binary()
	p.log.Debug("Running %s", configmgmt.Render(binary, args...))
	return p.runner.Run(ctx, binary, args...)
}
