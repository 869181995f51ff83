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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
)

// Instances returns every instance in the region.
func (p *Provider) Instances(ctx context.Context) ([]locator.Instance, error) {
	var instances []locator.Instance

	pager := ec2.NewDescribeInstancesPaginator(p.ec2, &ec2.DescribeInstancesInput{})
	for pager.HasMorePages() {
		page, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeInstancesOutput, error) {
			return pager.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("error describing instances: %w", err)
		}
		for _, r := range page.Reservations {
			for _, inst := range r.Instances {
				instances = append(instances, toInstance(inst))
			}
		}
	}

	return instances, nil
}

// findInstance resolves id against the current instance listing.
func (p *Provider) findInstance(ctx context.Context, id string) (locator.Instance, error) {
	instances, err := p.Instances(ctx)
	if err != nil {
		return locator.Instance{}, err
	}
	return locator.Find(instances, id)
}

func toInstance(inst types.Instance) locator.Instance {
	out := locator.Instance{
		ID:        aws.ToString(inst.InstanceId),
		Name:      locator.DefaultName,
		PublicDNS: aws.ToString(inst.PublicDnsName),
		PublicIP:  aws.ToString(inst.PublicIpAddress),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		Type:      string(inst.InstanceType),
	}
	if inst.State != nil {
		out.State = string(inst.State.Name)
	}
	if inst.LaunchTime != nil {
		out.LaunchTime = *inst.LaunchTime
	}
	for _, tag := range inst.Tags {
		switch aws.ToString(tag.Key) {
		case TagName:
			if v := aws.ToString(tag.Value); v != "" {
				out.Name = v
			}
		case TagRole:
			out.Role = aws.ToString(tag.Value)
		}
	}
	return out
}
