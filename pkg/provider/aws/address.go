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

// Addresses lists the elastic IPs of the region.
func (p *Provider) Addresses(ctx context.Context) ([]locator.ElasticAddress, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeAddressesOutput, error) {
		return p.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing addresses: %w", err)
	}

	addrs := make([]locator.ElasticAddress, 0, len(out.Addresses))
	for _, a := range out.Addresses {
		addrs = append(addrs, locator.ElasticAddress{
			ID:         aws.ToString(a.AllocationId),
			PublicIP:   aws.ToString(a.PublicIp),
			InstanceID: aws.ToString(a.InstanceId),
			Domain:     string(a.Domain),
		})
	}
	return addrs, nil
}

// RequestAddress allocates a new VPC elastic IP.
func (p *Provider) RequestAddress(ctx context.Context) (*locator.ElasticAddress, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.AllocateAddressOutput, error) {
		return p.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{Domain: types.DomainTypeVpc})
	})
	if err != nil {
		return nil, fmt.Errorf("error allocating address: %w", err)
	}
	return &locator.ElasticAddress{
		ID:       aws.ToString(out.AllocationId),
		PublicIP: aws.ToString(out.PublicIp),
		Domain:   string(out.Domain),
	}, nil
}

// ReleaseAddress releases the elastic IP with the given public address.
func (p *Provider) ReleaseAddress(ctx context.Context, publicIP string) error {
	addrs, err := p.Addresses(ctx)
	if err != nil {
		return err
	}
	addr, ok := locator.FindFunc(addrs, func(a locator.ElasticAddress) bool {
		return a.PublicIP == publicIP
	})
	if !ok {
		return &locator.NotFoundError{Kind: "address", ID: publicIP}
	}

	_, err = call(ctx, p, func(ctx context.Context) (*ec2.ReleaseAddressOutput, error) {
		return p.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{AllocationId: aws.String(addr.ID)})
	})
	if err != nil {
		return fmt.Errorf("error releasing address %s: %w", publicIP, err)
	}
	return nil
}
