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
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/vdt-tools/ec2deploy/internal/ami"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
)

type lister func(ctx context.Context, p *Provider) (*provider.Listing, error)

var listers = map[string]lister{
	"regions":          listRegions,
	"zones":            listZones,
	"eip":              listElasticAddresses,
	"images":           listImages,
	"placement-groups": listPlacementGroups,
	"volumes":          listVolumes,
	"security-groups":  listSecurityGroups,
	"subnets":          listSubnets,
	"gateways":         listGateways,
	"vpcs":             listVpcs,
	"keypairs":         listKeyPairs,
	"portforwards":     listPortForwards,
	"ip":               listPublicAddresses,
	"os":               listImageAliases,
}

// Kinds returns the resource kinds List accepts, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(listers))
	for k := range listers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// List returns a table of the resources of the given kind.
func (p *Provider) List(ctx context.Context, kind string) (*provider.Listing, error) {
	fn, ok := listers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: list %s (available: %s)", provider.ErrNotImplemented, kind, strings.Join(Kinds(), ", "))
	}
	listing, err := fn(ctx, p)
	if err != nil {
		return nil, err
	}
	listing.Kind = kind
	return listing, nil
}

func listRegions(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeRegionsOutput, error) {
		return p.ec2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing regions: %w", err)
	}
	l := &provider.Listing{Columns: []string{"NAME", "ENDPOINT"}}
	for _, r := range out.Regions {
		l.Rows = append(l.Rows, []string{aws.ToString(r.RegionName), aws.ToString(r.Endpoint)})
	}
	return l, nil
}

func listZones(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeAvailabilityZonesOutput, error) {
		return p.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing availability zones: %w", err)
	}
	l := &provider.Listing{Columns: []string{"NAME", "STATE", "REGION"}}
	for _, z := range out.AvailabilityZones {
		l.Rows = append(l.Rows, []string{aws.ToString(z.ZoneName), string(z.State), aws.ToString(z.RegionName)})
	}
	return l, nil
}

func listElasticAddresses(ctx context.Context, p *Provider) (*provider.Listing, error) {
	addrs, err := p.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	l := &provider.Listing{Columns: []string{"ALLOCATION", "PUBLIC IP", "INSTANCE", "DOMAIN"}}
	for _, a := range addrs {
		l.Rows = append(l.Rows, []string{a.ID, a.PublicIP, a.InstanceID, a.Domain})
	}
	return l, nil
}

func listImages(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeImagesOutput, error) {
		return p.ec2.DescribeImages(ctx, &ec2.DescribeImagesInput{Owners: []string{"self"}})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing images: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "NAME", "STATE", "ARCHITECTURE", "CREATED"}}
	for _, img := range out.Images {
		l.Rows = append(l.Rows, []string{
			aws.ToString(img.ImageId), aws.ToString(img.Name), string(img.State),
			string(img.Architecture), aws.ToString(img.CreationDate),
		})
	}
	return l, nil
}

func listPlacementGroups(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribePlacementGroupsOutput, error) {
		return p.ec2.DescribePlacementGroups(ctx, &ec2.DescribePlacementGroupsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing placement groups: %w", err)
	}
	l := &provider.Listing{Columns: []string{"NAME", "STRATEGY", "STATE"}}
	for _, g := range out.PlacementGroups {
		l.Rows = append(l.Rows, []string{aws.ToString(g.GroupName), string(g.Strategy), string(g.State)})
	}
	return l, nil
}

func listVolumes(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeVolumesOutput, error) {
		return p.ec2.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing volumes: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "SIZE", "TYPE", "STATE", "ZONE", "INSTANCE"}}
	for _, v := range out.Volumes {
		var instance string
		if len(v.Attachments) > 0 {
			instance = aws.ToString(v.Attachments[0].InstanceId)
		}
		l.Rows = append(l.Rows, []string{
			aws.ToString(v.VolumeId), fmt.Sprintf("%dGiB", aws.ToInt32(v.Size)), string(v.VolumeType),
			string(v.State), aws.ToString(v.AvailabilityZone), instance,
		})
	}
	return l, nil
}

func listSecurityGroups(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeSecurityGroupsOutput, error) {
		return p.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing security groups: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "NAME", "VPC", "DESCRIPTION"}}
	for _, g := range out.SecurityGroups {
		l.Rows = append(l.Rows, []string{
			aws.ToString(g.GroupId), aws.ToString(g.GroupName), aws.ToString(g.VpcId), aws.ToString(g.Description),
		})
	}
	return l, nil
}

func listSubnets(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeSubnetsOutput, error) {
		return p.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing subnets: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "VPC", "CIDR", "ZONE", "AVAILABLE IPS"}}
	for _, s := range out.Subnets {
		l.Rows = append(l.Rows, []string{
			aws.ToString(s.SubnetId), aws.ToString(s.VpcId), aws.ToString(s.CidrBlock),
			aws.ToString(s.AvailabilityZone), strconv.Itoa(int(aws.ToInt32(s.AvailableIpAddressCount))),
		})
	}
	return l, nil
}

func listGateways(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeInternetGatewaysOutput, error) {
		return p.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing internet gateways: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "VPC", "STATE"}}
	for _, g := range out.InternetGateways {
		var vpc, state string
		if len(g.Attachments) > 0 {
			vpc = aws.ToString(g.Attachments[0].VpcId)
			state = string(g.Attachments[0].State)
		}
		l.Rows = append(l.Rows, []string{aws.ToString(g.InternetGatewayId), vpc, state})
	}
	return l, nil
}

func listVpcs(ctx context.Context, p *Provider) (*provider.Listing, error) {
	out, err := call(ctx, p, func(ctx context.Context) (*ec2.DescribeVpcsOutput, error) {
		return p.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	})
	if err != nil {
		return nil, fmt.Errorf("error describing vpcs: %w", err)
	}
	l := &provider.Listing{Columns: []string{"ID", "NAME", "CIDR", "STATE", "DEFAULT"}}
	for _, v := range out.Vpcs {
		l.Rows = append(l.Rows, []string{
			aws.ToString(v.VpcId), tagValue(v.Tags, TagName), aws.ToString(v.CidrBlock),
			string(v.State), strconv.FormatBool(aws.ToBool(v.IsDefault)),
		})
	}
	return l, nil
}

func listKeyPairs(ctx context.Context, p *Provider) (*provider.Listing, error) {
	keys, err := p.KeyPairs(ctx)
	if err != nil {
		return nil, err
	}
	l := &provider.Listing{Columns: []string{"NAME", "ID", "FINGERPRINT"}}
	for _, k := range keys {
		l.Rows = append(l.Rows, []string{k.Name, k.ID, k.Fingerprint})
	}
	return l, nil
}

func listPortForwards(ctx context.Context, p *Provider) (*provider.Listing, error) {
	rules, err := p.PortForwards(ctx)
	if err != nil {
		return nil, err
	}
	l := &provider.Listing{Columns: []string{"ID", "ADDRESS", "INSTANCE", "PUBLIC", "PRIVATE", "PROTOCOL"}}
	for _, r := range rules {
		l.Rows = append(l.Rows, []string{
			r.ID, r.AddressID, r.InstanceID,
			strconv.Itoa(int(r.PublicPort)), strconv.Itoa(int(r.PrivatePort)), r.Protocol,
		})
	}
	return l, nil
}

func listPublicAddresses(ctx context.Context, p *Provider) (*provider.Listing, error) {
	addrs, err := p.PublicAddresses(ctx)
	if err != nil {
		return nil, err
	}
	l := &provider.Listing{Columns: []string{"ID", "ADDRESS"}}
	for _, a := range addrs {
		l.Rows = append(l.Rows, []string{a.ID, a.Address})
	}
	return l, nil
}

func listImageAliases(_ context.Context, _ *Provider) (*provider.Listing, error) {
	l := &provider.Listing{Columns: []string{"ID", "NAME", "ARCHITECTURES", "SSM"}}
	for _, a := range ami.All() {
		l.Rows = append(l.Rows, []string{
			a.ID, a.Name, strings.Join(a.Architectures, ", "), strconv.FormatBool(a.SSMPath != ""),
		})
	}
	return l, nil
}

func tagValue(tags []types.Tag, key string) string {
	for _, t := range tags {
		if aws.ToString(t.Key) == key {
			return aws.ToString(t.Value)
		}
	}
	return ""
}
