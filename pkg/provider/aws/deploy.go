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
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"

	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/userdata"
)

var minMaxCount int32 = 1

// UserData renders the user data document a deploy request would send,
// without calling AWS.
func (p *Provider) UserData(req provider.DeployRequest) (string, error) {
	if len(req.Overrides) == 0 {
		return "", provider.ErrNoUserData
	}
	return p.userdata.Build(p.userdataSpec(req))
}

// ResolveImage returns the AMI id for an image reference.
func (p *Provider) ResolveImage(ctx context.Context, ref string) (string, error) {
	return p.images.Resolve(ctx, ref)
}

func (p *Provider) userdataSpec(req provider.DeployRequest) userdata.Spec {
	return userdata.Spec{
		TemplateURL:     p.spec.CloudInit.Template(req.Base),
		ControlHostname: p.spec.ControlNode.Hostname,
		Overrides:       req.Overrides,
	}
}

// Deploy launches one instance with user data built from req, tags it and,
// unless it is a base install, registers it for certificate signing.
func (p *Provider) Deploy(ctx context.Context, req provider.DeployRequest) (*provider.DeployResult, error) {
	payload, err := p.UserData(req)
	if err != nil {
		return nil, err
	}
	// EC2 expects base64 on the wire whatever the document encoding is
	if p.userdata.Encoding() == userdata.EncodingNone {
		payload = base64.StdEncoding.EncodeToString([]byte(payload))
	}

	imageID, err := p.ResolveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	input := &ec2.RunInstancesInput{
		ImageId:          aws.String(imageID),
		InstanceType:     types.InstanceType(firstNonEmpty(req.InstanceType, p.spec.Instance.Type)),
		MinCount:         &minMaxCount,
		MaxCount:         &minMaxCount,
		UserData:         aws.String(payload),
		ClientToken:      aws.String(uuid.NewString()),
		SecurityGroupIds: req.SecurityGroupIDs,
	}
	if len(input.SecurityGroupIds) == 0 {
		input.SecurityGroupIds = p.spec.Instance.SecurityGroupIDs
	}
	if key := firstNonEmpty(req.KeyName, p.spec.Instance.KeyName); key != "" {
		input.KeyName = aws.String(key)
	}
	if subnet := firstNonEmpty(req.SubnetID, p.spec.Instance.SubnetID); subnet != "" {
		input.SubnetId = aws.String(subnet)
	}
	if p.spec.Zone != "" {
		input.Placement = &types.Placement{AvailabilityZone: aws.String(p.spec.Zone)}
	}

	out, err := call(ctx, p, func(ctx context.Context) (*ec2.RunInstancesOutput, error) {
		return p.ec2.RunInstances(ctx, input)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating instance: %w", err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("instance creation returned no instances")
	}
	created := out.Instances[0]
	id := aws.ToString(created.InstanceId)

	tags := []types.Tag{{Key: aws.String(TagName), Value: aws.String(req.DisplayName)}}
	if role, ok := userdata.Lookup(req.Overrides, TagRole); ok {
		tags = append(tags, types.Tag{Key: aws.String(TagRole), Value: aws.String(role)})
	}
	if _, err := call(ctx, p, func(ctx context.Context) (*ec2.CreateTagsOutput, error) {
		return p.ec2.CreateTags(ctx, &ec2.CreateTagsInput{Resources: []string{id}, Tags: tags})
	}); err != nil {
		return nil, fmt.Errorf("error tagging instance %s: %w", id, err)
	}
	created.Tags = append(created.Tags, tags...)

	if !req.Base {
		p.registerCertificate(id)
	}

	return &provider.DeployResult{
		Instance: toInstance(created),
		ImageID:  imageID,
		UserData: userdata.Document(p.userdataSpec(req)),
	}, nil
}

// registerCertificate never fails the deploy; the instance already exists.
func (p *Provider) registerCertificate(id string) {
	if p.certs == nil {
		p.log.Debug("No pending certificate file configured, skipping registration of %s", id)
		return
	}
	if err := p.certs.Add(id); err != nil {
		p.log.Warning("Failed to register %s for certificate signing: %v", id, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
