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
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
)

// SSMClient resolves public image parameters such as
// /aws/service/canonical/ubuntu/server/24.04/stable/current/amd64/hvm/ebs-gp3/ami-id.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Ensure *ssm.Client implements SSMClient at compile time.
var _ SSMClient = (*ssm.Client)(nil)

// Clients groups the service clients built from one AWS config.
type Clients struct {
	EC2   EC2Client
	ELBv2 ELBv2Client
	SSM   SSMClient
}

// LoadConfig builds the AWS config for a session. Static credentials take
// precedence over a named profile; with neither, the default chain is used.
func LoadConfig(ctx context.Context, spec v1alpha1.SessionSpec) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(spec.Region),
	}
	switch {
	case spec.Auth.AccessKeyID != "":
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(spec.Auth.AccessKeyID, spec.Auth.SecretAccessKey, ""),
		))
	case spec.Auth.Profile != "":
		opts = append(opts, config.WithSharedConfigProfile(spec.Auth.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewClients returns real service clients for cfg.
func NewClients(cfg aws.Config) Clients {
	return Clients{
		EC2:   ec2.NewFromConfig(cfg),
		ELBv2: elasticloadbalancingv2.NewFromConfig(cfg),
		SSM:   ssm.NewFromConfig(cfg),
	}
}
