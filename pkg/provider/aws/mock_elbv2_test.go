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

	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	internalaws "github.com/vdt-tools/ec2deploy/internal/aws"
)

// MockELBv2Client is a mock implementation of ELBv2Client for testing.
type MockELBv2Client struct {
	Calls []string

	DescribeLoadBalancersFunc func(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	CreateTargetGroupFunc     func(ctx context.Context, params *elasticloadbalancingv2.CreateTargetGroupInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateTargetGroupOutput, error)
	DescribeTargetGroupsFunc  func(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error)
	DescribeTargetHealthFunc  func(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetHealthInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error)
	DeleteTargetGroupFunc     func(ctx context.Context, params *elasticloadbalancingv2.DeleteTargetGroupInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DeleteTargetGroupOutput, error)
	RegisterTargetsFunc       func(ctx context.Context, params *elasticloadbalancingv2.RegisterTargetsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.RegisterTargetsOutput, error)
	CreateListenerFunc        func(ctx context.Context, params *elasticloadbalancingv2.CreateListenerInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateListenerOutput, error)
	DescribeListenersFunc     func(ctx context.Context, params *elasticloadbalancingv2.DescribeListenersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error)
}

var _ internalaws.ELBv2Client = (*MockELBv2Client)(nil)

// NewMockELBv2Client creates a new MockELBv2Client with empty responses.
func NewMockELBv2Client() *MockELBv2Client {
	return &MockELBv2Client{}
}

func (m *MockELBv2Client) record(op string) {
	m.Calls = append(m.Calls, op)
}

func (m *MockELBv2Client) DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	m.record("DescribeLoadBalancers")
	if m.DescribeLoadBalancersFunc != nil {
		return m.DescribeLoadBalancersFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.DescribeLoadBalancersOutput{}, nil
}

func (m *MockELBv2Client) CreateTargetGroup(ctx context.Context, params *elasticloadbalancingv2.CreateTargetGroupInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateTargetGroupOutput, error) {
	m.record("CreateTargetGroup")
	if m.CreateTargetGroupFunc != nil {
		return m.CreateTargetGroupFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.CreateTargetGroupOutput{}, nil
}

func (m *MockELBv2Client) DescribeTargetGroups(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error) {
	m.record("DescribeTargetGroups")
	if m.DescribeTargetGroupsFunc != nil {
		return m.DescribeTargetGroupsFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.DescribeTargetGroupsOutput{}, nil
}

func (m *MockELBv2Client) DescribeTargetHealth(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetHealthInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetHealthOutput, error) {
	m.record("DescribeTargetHealth")
	if m.DescribeTargetHealthFunc != nil {
		return m.DescribeTargetHealthFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.DescribeTargetHealthOutput{}, nil
}

func (m *MockELBv2Client) DeleteTargetGroup(ctx context.Context, params *elasticloadbalancingv2.DeleteTargetGroupInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DeleteTargetGroupOutput, error) {
	m.record("DeleteTargetGroup")
	if m.DeleteTargetGroupFunc != nil {
		return m.DeleteTargetGroupFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.DeleteTargetGroupOutput{}, nil
}

func (m *MockELBv2Client) RegisterTargets(ctx context.Context, params *elasticloadbalancingv2.RegisterTargetsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.RegisterTargetsOutput, error) {
	m.record("RegisterTargets")
	if m.RegisterTargetsFunc != nil {
		return m.RegisterTargetsFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.RegisterTargetsOutput{}, nil
}

func (m *MockELBv2Client) CreateListener(ctx context.Context, params *elasticloadbalancingv2.CreateListenerInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateListenerOutput, error) {
	m.record("CreateListener")
	if m.CreateListenerFunc != nil {
		return m.CreateListenerFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.CreateListenerOutput{}, nil
}

func (m *MockELBv2Client) DescribeListeners(ctx context.Context, params *elasticloadbalancingv2.DescribeListenersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error) {
	m.record("DescribeListeners")
	if m.DescribeListenersFunc != nil {
		return m.DescribeListenersFunc(ctx, params, optFns...)
	}
	return &elasticloadbalancingv2.DescribeListenersOutput{}, nil
}
