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

// Package aws implements the ec2deploy provider on EC2, ELBv2 and SSM.
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/vdt-tools/ec2deploy/api/deploy/v1alpha1"
	"github.com/vdt-tools/ec2deploy/internal/ami"
	internalaws "github.com/vdt-tools/ec2deploy/internal/aws"
	"github.com/vdt-tools/ec2deploy/internal/logger"
	"github.com/vdt-tools/ec2deploy/pkg/certificate"
	"github.com/vdt-tools/ec2deploy/pkg/configmgmt"
	"github.com/vdt-tools/ec2deploy/pkg/locator"
	"github.com/vdt-tools/ec2deploy/pkg/provider"
	"github.com/vdt-tools/ec2deploy/pkg/userdata"
)

const (
	// Name of this provider
	Name = "aws"

	// Tag keys read from and written to instances
	TagName = "Name"
	TagRole = "role"

	apiCallTimeout = 30 * time.Second // Per-call timeout for AWS API operations
)

var _ provider.Provider = (*Provider)(nil)

// Provider runs ec2deploy operations against one AWS region.
type Provider struct {
	ec2   internalaws.EC2Client
	elbv2 internalaws.ELBv2Client
	ssm   internalaws.SSMClient

	images   *ami.Resolver
	userdata *userdata.Builder
	guard    locator.Guard
	runner   configmgmt.Runner
	certs    certificate.Registry
	retry    RetryConfig

	spec v1alpha1.SessionSpec
	log  *logger.FunLogger
}

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithEC2Client sets a custom EC2 client for the Provider.
// This is primarily used for testing to inject mock clients.
func WithEC2Client(client internalaws.EC2Client) Option {
	return func(p *Provider) {
		p.ec2 = client
	}
}

// WithELBv2Client sets a custom ELBv2 client for the Provider.
// This is primarily used for testing to inject mock clients.
func WithELBv2Client(client internalaws.ELBv2Client) Option {
	return func(p *Provider) {
		p.elbv2 = client
	}
}

// WithSSMClient sets a custom SSM client for the Provider.
// This is primarily used for testing to inject mock clients.
func WithSSMClient(client internalaws.SSMClient) Option {
	return func(p *Provider) {
		p.ssm = client
	}
}

// WithRunner sets the runner used for mcollective and node cleanup.
func WithRunner(runner configmgmt.Runner) Option {
	return func(p *Provider) {
		p.runner = runner
	}
}

// WithCertificates sets the pending certificate registry.
func WithCertificates(registry certificate.Registry) Option {
	return func(p *Provider) {
		p.certs = registry
	}
}

// WithRetryConfig overrides the backoff applied to throttled calls.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(p *Provider) {
		p.retry = cfg
	}
}

// New creates a Provider for the session. Clients that are not injected
// through options are built from the default AWS configuration.
func New(log *logger.FunLogger, session *v1alpha1.Session, opts ...Option) (*Provider, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	spec := session.Spec

	builder, err := userdata.NewBuilder(userdata.Encoding(spec.CloudInit.Encoding))
	if err != nil {
		return nil, err
	}

	p := &Provider{
		userdata: builder,
		guard:    locator.Guard{ControlInstanceID: spec.ControlNode.InstanceID},
		retry:    DefaultRetryConfig(),
		spec:     spec,
		log:      log,
	}
	if spec.Certificates.PendingFile != "" {
		p.certs = certificate.NewStore(spec.Certificates.PendingFile)
	}

	// Apply functional options
	for _, opt := range opts {
		opt(p)
	}

	if p.runner == nil {
		p.runner = configmgmt.NewExecRunner(log, spec.ConfigManagement.Timeout())
	}

	// Create AWS clients if not injected (for testing)
	if p.ec2 == nil || p.elbv2 == nil || p.ssm == nil {
		cfg, err := internalaws.LoadConfig(context.TODO(), spec)
		if err != nil {
			return nil, err
		}
		clients := internalaws.NewClients(cfg)
		if p.ec2 == nil {
			p.ec2 = clients.EC2
		}
		if p.elbv2 == nil {
			p.elbv2 = clients.ELBv2
		}
		if p.ssm == nil {
			p.ssm = clients.SSM
		}
	}

	p.images = ami.NewResolver(p.ec2, p.ssm, spec.Region, spec.Instance.Architecture)

	return p, nil
}

// Name returns the name of the provider
func (p *Provider) Name() string { return Name }

// call runs fn with a per-call timeout, retrying throttled requests.
func call[T any](ctx context.Context, p *Provider, fn func(context.Context) (T, error)) (T, error) {
	return WithRetry(ctx, p.retry, func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()
		return fn(callCtx)
	})
}
