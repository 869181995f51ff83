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

package ami

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DefaultArch is used when the session does not name an architecture.
const DefaultArch = "x86_64"

// EC2ImageDescriber is the EC2 subset needed to resolve aliases without an
// SSM parameter.
type EC2ImageDescriber interface {
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

// SSMParameterGetter is the SSM subset needed to read public parameters.
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Resolver turns image references into AMI ids.
type Resolver struct {
	ec2Client EC2ImageDescriber
	ssmClient SSMParameterGetter
	region    string
	arch      string
}

// NewResolver creates a resolver for region. An empty arch selects
// DefaultArch.
func NewResolver(ec2Client EC2ImageDescriber, ssmClient SSMParameterGetter, region, arch string) *Resolver {
	if arch == "" {
		arch = DefaultArch
	}
	return &Resolver{
		ec2Client: ec2Client,
		ssmClient: ssmClient,
		region:    region,
		arch:      NormalizeArch(arch),
	}
}

// Resolve returns the AMI id for ref.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	switch {
	case ref == "":
		return "", fmt.Errorf("image reference is empty")
	case strings.HasPrefix(ref, "ami-"):
		return ref, nil
	case strings.HasPrefix(ref, "/"):
		return r.parameter(ctx, ref)
	}

	alias, ok := Get(ref)
	if !ok {
		return "", fmt.Errorf("unknown image %q: expected an AMI id, an SSM parameter path or one of %s",
			ref, strings.Join(List(), ", "))
	}
	if !slices.Contains(alias.Architectures, r.arch) {
		return "", fmt.Errorf("image %s does not support architecture %s (supported: %s)",
			ref, r.arch, strings.Join(alias.Architectures, ", "))
	}

	if alias.SSMPath != "" {
		id, err := r.parameter(ctx, fmt.Sprintf(alias.SSMPath, ssmArch(r.arch)))
		if err == nil {
			return id, nil
		}
		// fall through to DescribeImages
	}

	id, err := r.latestImage(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image %s: %w", ref, err)
	}
	return id, nil
}

func (r *Resolver) parameter(ctx context.Context, name string) (string, error) {
	out, err := r.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("SSM lookup of %s failed: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("SSM parameter %s has no value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (r *Resolver) latestImage(ctx context.Context, alias *Alias) (string, error) {
	filters := []types.Filter{
		{Name: aws.String("name"), Values: []string{fmt.Sprintf(alias.NamePattern, nameArch(r.arch))}},
		{Name: aws.String("architecture"), Values: []string{r.arch}},
		{Name: aws.String("state"), Values: []string{"available"}},
	}
	input := &ec2.DescribeImagesInput{Filters: filters}
	if alias.OwnerID == "amazon" {
		input.Owners = []string{"amazon"}
	} else {
		input.Filters = append(input.Filters, types.Filter{
			Name: aws.String("owner-id"), Values: []string{alias.OwnerID},
		})
	}

	out, err := r.ec2Client.DescribeImages(ctx, input)
	if err != nil {
		return "", fmt.Errorf("DescribeImages failed: %w", err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("no images found for %s in region %s", alias.ID, r.region)
	}

	// newest first
	sort.Slice(out.Images, func(i, j int) bool {
		return aws.ToString(out.Images[i].CreationDate) > aws.ToString(out.Images[j].CreationDate)
	})
	id := aws.ToString(out.Images[0].ImageId)
	if id == "" {
		return "", fmt.Errorf("image for %s has an empty id", alias.ID)
	}
	return id, nil
}

// NormalizeArch converts architecture aliases to the EC2 form.
func NormalizeArch(arch string) string {
	switch strings.ToLower(arch) {
	case "amd64", "x86_64":
		return "x86_64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// SSM parameters and most image names say amd64 where EC2 says x86_64.
func ssmArch(arch string) string {
	if arch == "x86_64" {
		return "amd64"
	}
	return arch
}

func nameArch(arch string) string {
	return ssmArch(arch)
}
